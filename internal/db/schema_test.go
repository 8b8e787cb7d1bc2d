package db

import (
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	// NewTestDB already applied the schema once.
	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	for _, table := range []string{"grocery_items", "recipes", "recipe_ingredients", "users", "settings", "revoked_tokens"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	database := NewTestDB(t)

	var enabled int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if enabled != 1 {
		t.Errorf("expected foreign_keys=1, got %d", enabled)
	}
}

func TestGroceryItemDefaults(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(`INSERT INTO grocery_items (name) VALUES ('Salt')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var quantity int
	var unit, category string
	var have, need bool
	err = database.QueryRow(
		`SELECT quantity, unit, category, have, need FROM grocery_items WHERE name = 'Salt'`,
	).Scan(&quantity, &unit, &category, &have, &need)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if quantity != 1 || unit != "" || category != "general" || have || need {
		t.Errorf("unexpected defaults: quantity=%d unit=%q category=%q have=%v need=%v",
			quantity, unit, category, have, need)
	}
}
