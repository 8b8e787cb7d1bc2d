package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/pantry/internal/model"
)

// RecipeFilter selects recipes. Zero-value fields do not filter.
type RecipeFilter struct {
	// Title matches case-insensitively anywhere in the title.
	Title string
	// Ingredient matches case-insensitively anywhere in the ingredients text.
	Ingredient *string
	Category   *string
}

func (f RecipeFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.Title != "" {
		conds = append(conds, `casefold(title) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.Title))
	}
	if f.Ingredient != nil {
		conds = append(conds, `casefold(ingredients) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(*f.Ingredient))
	}
	if f.Category != nil {
		conds = append(conds, `category = ?`)
		args = append(args, *f.Category)
	}
	return whereClause(conds), args
}

const recipeCols = `id, title, instructions, category, ingredients`

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	if err := scanner.Scan(&r.ID, &r.Title, &r.Instructions, &r.Category, &r.Ingredients); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRecipe creates a new recipe.
func CreateRecipe(ctx context.Context, db *sql.DB, n model.NewRecipe) (*model.Recipe, error) {
	r := n.Recipe()

	var created *model.Recipe
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (title, instructions, category, ingredients) VALUES (?, ?, ?, ?)`,
			r.Title, r.Instructions, r.Category, r.Ingredients,
		)
		if err != nil {
			return fmt.Errorf("creating recipe: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting recipe id: %w", err)
		}

		created, err = getRecipe(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetRecipe returns a recipe by ID, or nil if it does not exist.
func GetRecipe(ctx context.Context, db *sql.DB, id int64) (*model.Recipe, error) {
	return getRecipe(ctx, db, id)
}

func getRecipe(ctx context.Context, q queryer, id int64) (*model.Recipe, error) {
	r, err := scanRecipe(q.QueryRowContext(ctx, `SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	return r, nil
}

// ListRecipes returns the recipes matching every supplied filter.
func ListRecipes(ctx context.Context, db *sql.DB, f RecipeFilter) ([]model.Recipe, error) {
	where, args := f.where()
	rows, err := db.QueryContext(ctx, `SELECT `+recipeCols+` FROM recipes`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

// PatchRecipe overwrites only the fields present in p. It returns nil,
// without writing, if the recipe does not exist.
func PatchRecipe(ctx context.Context, db *sql.DB, id int64, p model.RecipePatch) (*model.Recipe, error) {
	var r *model.Recipe
	err := inTx(ctx, db, func(tx *sql.Tx) error {
		var err error
		r, err = getRecipe(ctx, tx, id)
		if err != nil || r == nil {
			return err
		}

		p.Apply(r)

		_, err = tx.ExecContext(ctx,
			`UPDATE recipes SET title = ?, instructions = ?, category = ?, ingredients = ? WHERE id = ?`,
			r.Title, r.Instructions, r.Category, r.Ingredients, id,
		)
		if err != nil {
			return fmt.Errorf("updating recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRecipe removes a recipe and its ingredient links. It reports false
// if the recipe does not exist.
func DeleteRecipe(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting recipe: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
