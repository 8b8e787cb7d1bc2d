package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/pantry/internal/model"
)

const ingredientQuery = `SELECT ri.recipe_id, ri.grocery_item_id, gi.name, ri.quantity, ri.unit, gi.have, gi.need
	 FROM recipe_ingredients ri
	 JOIN grocery_items gi ON gi.id = ri.grocery_item_id`

func scanIngredient(scanner interface{ Scan(...any) error }) (*model.RecipeIngredient, error) {
	var ing model.RecipeIngredient
	err := scanner.Scan(&ing.RecipeID, &ing.GroceryItemID, &ing.Name, &ing.Quantity, &ing.Unit, &ing.Have, &ing.Need)
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// ListRecipeIngredients returns the grocery items linked to a recipe.
func ListRecipeIngredients(ctx context.Context, db *sql.DB, recipeID int64) ([]model.RecipeIngredient, error) {
	rows, err := db.QueryContext(ctx,
		ingredientQuery+` WHERE ri.recipe_id = ? ORDER BY gi.name, gi.id`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("listing recipe ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []model.RecipeIngredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe ingredient: %w", err)
		}
		ingredients = append(ingredients, *ing)
	}
	return ingredients, rows.Err()
}

// SetRecipeIngredient links a grocery item to a recipe, replacing the
// quantity and unit of an existing link. It returns nil if either the recipe
// or the item does not exist.
func SetRecipeIngredient(ctx context.Context, db *sql.DB, recipeID, itemID int64, in model.RecipeIngredientInput) (*model.RecipeIngredient, error) {
	var ing *model.RecipeIngredient
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		r, err := getRecipe(ctx, tx, recipeID)
		if err != nil || r == nil {
			return err
		}
		item, err := getGroceryItem(ctx, tx, itemID)
		if err != nil || item == nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, grocery_item_id, quantity, unit) VALUES (?, ?, ?, ?)
			 ON CONFLICT (recipe_id, grocery_item_id) DO UPDATE SET quantity = excluded.quantity, unit = excluded.unit`,
			recipeID, itemID, in.Amount(), in.Unit,
		)
		if err != nil {
			return fmt.Errorf("linking recipe ingredient: %w", err)
		}

		ing, err = scanIngredient(tx.QueryRowContext(ctx,
			ingredientQuery+` WHERE ri.recipe_id = ? AND ri.grocery_item_id = ?`, recipeID, itemID))
		if err != nil {
			return fmt.Errorf("reading recipe ingredient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ing, nil
}

// RemoveRecipeIngredient unlinks a grocery item from a recipe. It reports
// false if no such link exists.
func RemoveRecipeIngredient(ctx context.Context, db *sql.DB, recipeID, itemID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = ? AND grocery_item_id = ?`,
		recipeID, itemID,
	)
	if err != nil {
		return false, fmt.Errorf("removing recipe ingredient: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ShopRecipe puts every linked ingredient that is not in the pantry on the
// shopping list and returns those items. It returns nil if the recipe does
// not exist, and an empty slice if nothing is missing.
func ShopRecipe(ctx context.Context, db *sql.DB, recipeID int64) ([]model.GroceryItem, error) {
	var items []model.GroceryItem
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		r, err := getRecipe(ctx, tx, recipeID)
		if err != nil || r == nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE grocery_items SET need = 1
			 WHERE have = 0 AND id IN (SELECT grocery_item_id FROM recipe_ingredients WHERE recipe_id = ?)`,
			recipeID,
		)
		if err != nil {
			return fmt.Errorf("marking recipe ingredients needed: %w", err)
		}

		items, err = queryGroceryItems(ctx, tx,
			`SELECT `+groceryCols+` FROM grocery_items
			 WHERE have = 0 AND id IN (SELECT grocery_item_id FROM recipe_ingredients WHERE recipe_id = ?)
			 ORDER BY id`, recipeID)
		if err != nil {
			return err
		}
		if items == nil {
			items = []model.GroceryItem{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
