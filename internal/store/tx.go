package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/pantry/internal/model"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a single transaction and commits if fn returns nil.
// The transaction is rolled back on every other exit path.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// likeEscaper makes user input match literally inside a LIKE pattern that
// uses ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching any case-folded value
// containing s. The column side must be wrapped in casefold().
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(model.FoldName(s)) + "%"
}

// whereClause joins conditions with AND. It returns an empty string when
// there are none.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
