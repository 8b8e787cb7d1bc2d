package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"

	"github.com/erazemk/pantry/internal/model"
)

// pragmas are applied by the driver to every new connection in the pool, so
// foreign keys and the busy timeout hold no matter which connection serves a
// request.
var pragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

func init() {
	// SQLite's LIKE and lower() only fold ASCII letters. casefold(x) gives
	// queries a Unicode-aware alternative.
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, casefold)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return model.FoldName(v), nil
	case []byte:
		return model.FoldName(string(v)), nil
	default:
		return v, nil
	}
}

// Open opens a SQLite database connection pool and verifies it is usable.
// path may already carry DSN query parameters.
func Open(path string) (*sql.DB, error) {
	var dsn strings.Builder
	dsn.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		dsn.WriteString(sep + "_pragma=" + p)
		sep = "&"
	}

	db, err := sql.Open("sqlite", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
