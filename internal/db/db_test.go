package db

import (
	"path/filepath"
	"testing"
)

func TestOpenKeepsExistingQuery(t *testing.T) {
	path := "file:" + filepath.Join(t.TempDir(), "pantry.sqlite3") + "?mode=rwc"

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	defer database.Close()

	var enabled int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if enabled != 1 {
		t.Errorf("expected foreign_keys=1, got %d", enabled)
	}

	var mode string
	if err := database.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

func TestCasefold(t *testing.T) {
	database := NewTestDB(t)

	tests := []struct {
		in   any
		want any
	}{
		{"Čokolada", "čokolada"},
		{"ÖLIVE Oil", "ölive oil"},
		{"milk", "milk"},
		{nil, nil},
	}

	for _, tt := range tests {
		var got any
		if err := database.QueryRow(`SELECT casefold(?)`, tt.in).Scan(&got); err != nil {
			t.Fatalf("casefold(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("casefold(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
