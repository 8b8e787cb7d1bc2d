package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/pantry/internal/model"
)

// GroceryFilter selects grocery items. Zero-value fields do not filter.
type GroceryFilter struct {
	// Name matches case-insensitively anywhere in the item name.
	Name     string
	Need     *bool
	Have     *bool
	Category *string
}

func (f GroceryFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.Name != "" {
		conds = append(conds, `casefold(name) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.Name))
	}
	if f.Need != nil {
		conds = append(conds, `need = ?`)
		args = append(args, *f.Need)
	}
	if f.Have != nil {
		conds = append(conds, `have = ?`)
		args = append(args, *f.Have)
	}
	if f.Category != nil {
		conds = append(conds, `category = ?`)
		args = append(args, *f.Category)
	}
	return whereClause(conds), args
}

const groceryCols = `id, name, quantity, unit, category, have, need`

func scanGroceryItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := scanner.Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit, &item.Category, &item.Have, &item.Need)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func queryGroceryItems(ctx context.Context, q queryer, query string, args ...any) ([]model.GroceryItem, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing grocery items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning grocery item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListGroceryItems returns the items matching every supplied filter, in
// insertion order.
func ListGroceryItems(ctx context.Context, db *sql.DB, f GroceryFilter) ([]model.GroceryItem, error) {
	where, args := f.where()
	return queryGroceryItems(ctx, db,
		`SELECT `+groceryCols+` FROM grocery_items`+where+` ORDER BY id`, args...)
}

// ListGroceryItemsByFlag returns the items whose have or need column equals
// value.
func ListGroceryItemsByFlag(ctx context.Context, db *sql.DB, flag model.Flag, value bool) ([]model.GroceryItem, error) {
	if !flag.Valid() {
		return nil, fmt.Errorf("unknown grocery flag %q", flag)
	}
	// flag is one of two constants, never user input.
	return queryGroceryItems(ctx, db,
		`SELECT `+groceryCols+` FROM grocery_items WHERE `+string(flag)+` = ? ORDER BY id`, value)
}

// GetGroceryItem returns an item by ID, or nil if it does not exist.
func GetGroceryItem(ctx context.Context, db *sql.DB, id int64) (*model.GroceryItem, error) {
	return getGroceryItem(ctx, db, id)
}

func getGroceryItem(ctx context.Context, q queryer, id int64) (*model.GroceryItem, error) {
	row := q.QueryRowContext(ctx, `SELECT `+groceryCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanGroceryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting grocery item: %w", err)
	}
	return item, nil
}

// CreateShoppingItem adds an item to the shopping list. The stored item
// always has have=false and need=true.
func CreateShoppingItem(ctx context.Context, db *sql.DB, n model.NewGroceryItem) (*model.GroceryItem, error) {
	return insertGroceryItem(ctx, db, n.Item(false, true))
}

// CreatePantryItem adds an item to the pantry. The stored item always has
// have=true and need=false.
func CreatePantryItem(ctx context.Context, db *sql.DB, n model.NewGroceryItem) (*model.GroceryItem, error) {
	return insertGroceryItem(ctx, db, n.Item(true, false))
}

func insertGroceryItem(ctx context.Context, db *sql.DB, item model.GroceryItem) (*model.GroceryItem, error) {
	var created *model.GroceryItem
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO grocery_items (name, quantity, unit, category, have, need) VALUES (?, ?, ?, ?, ?, ?)`,
			item.Name, item.Quantity, item.Unit, item.Category, item.Have, item.Need,
		)
		if err != nil {
			return fmt.Errorf("creating grocery item: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting grocery item id: %w", err)
		}

		created, err = getGroceryItem(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReplaceGroceryItem overwrites every field of an item. It returns nil if
// the item does not exist.
func ReplaceGroceryItem(ctx context.Context, db *sql.DB, id int64, r model.GroceryItemReplace) (*model.GroceryItem, error) {
	return modifyGroceryItem(ctx, db, id, r.Apply)
}

// PatchGroceryItem overwrites only the fields present in p. It returns nil,
// without writing, if the item does not exist.
func PatchGroceryItem(ctx context.Context, db *sql.DB, id int64, p model.GroceryItemPatch) (*model.GroceryItem, error) {
	return modifyGroceryItem(ctx, db, id, p.Apply)
}

// modifyGroceryItem loads, mutates and writes back one item in a single
// transaction.
func modifyGroceryItem(ctx context.Context, db *sql.DB, id int64, apply func(*model.GroceryItem)) (*model.GroceryItem, error) {
	var item *model.GroceryItem
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		var err error
		item, err = getGroceryItem(ctx, tx, id)
		if err != nil || item == nil {
			return err
		}

		apply(item)

		_, err = tx.ExecContext(ctx,
			`UPDATE grocery_items SET name = ?, quantity = ?, unit = ?, category = ?, have = ?, need = ?
			 WHERE id = ?`,
			item.Name, item.Quantity, item.Unit, item.Category, item.Have, item.Need, id,
		)
		if err != nil {
			return fmt.Errorf("updating grocery item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteGroceryItem removes an item and its recipe links. It reports false
// if the item does not exist.
func DeleteGroceryItem(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting grocery item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SetGroceryItemImage stores an item's photo. It reports false if the item
// does not exist.
func SetGroceryItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE grocery_items SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting grocery item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// GetGroceryItemImage returns an item's photo and MIME type. Data is nil if
// the item does not exist or has no photo.
func GetGroceryItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM grocery_items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting grocery item image: %w", err)
	}
	return image, mime.String, nil
}

// ClearGroceryItemImage removes an item's photo. It reports false if the
// item does not exist or has no photo.
func ClearGroceryItemImage(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE grocery_items SET image = NULL, image_mime = NULL WHERE id = ? AND image IS NOT NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("clearing grocery item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
