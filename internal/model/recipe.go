package model

import "strings"

// Recipe is a titled instruction set. Ingredients is the free-text list as
// written by the user; structured links to grocery items live in
// RecipeIngredient and are managed separately.
type Recipe struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	Category     string `json:"category"`
	Ingredients  string `json:"ingredients"`
}

// NewRecipe is the recipe create payload.
type NewRecipe struct {
	Title        string  `json:"title"`
	Instructions string  `json:"instructions"`
	Category     *string `json:"category"`
	Ingredients  string  `json:"ingredients"`
}

// Validate checks the required fields.
func (n NewRecipe) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return missing("title")
	}
	return nil
}

// Recipe builds the row to insert, applying defaults.
func (n NewRecipe) Recipe() Recipe {
	r := Recipe{
		Title:        NormalizeName(n.Title),
		Instructions: n.Instructions,
		Category:     DefaultCategory,
		Ingredients:  n.Ingredients,
	}
	if n.Category != nil {
		r.Category = *n.Category
	}
	return r
}

// RecipePatch is the partial-update payload for recipes.
type RecipePatch struct {
	Title        *string `json:"title"`
	Instructions *string `json:"instructions"`
	Category     *string `json:"category"`
	Ingredients  *string `json:"ingredients"`
}

// Validate checks the fields that are present.
func (p RecipePatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return invalid("title", "must not be blank")
	}
	return nil
}

// Apply copies the present fields onto r.
func (p RecipePatch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = NormalizeName(*p.Title)
	}
	if p.Instructions != nil {
		r.Instructions = *p.Instructions
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
}

// RecipeIngredient links a recipe to a tracked grocery item: "this recipe
// needs Quantity Unit of that item". Name, Have and Need are read from the
// item when listing.
type RecipeIngredient struct {
	RecipeID      int64  `json:"recipe_id"`
	GroceryItemID int64  `json:"grocery_item_id"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Unit          string `json:"unit"`
	Have          bool   `json:"have"`
	Need          bool   `json:"need"`
}

// RecipeIngredientInput is the payload for linking an item to a recipe.
type RecipeIngredientInput struct {
	Quantity *int   `json:"quantity"`
	Unit     string `json:"unit"`
}

// Validate checks the quantity.
func (in RecipeIngredientInput) Validate() error {
	if in.Quantity != nil && *in.Quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	return nil
}

// Amount returns the quantity with the default applied.
func (in RecipeIngredientInput) Amount() int {
	if in.Quantity == nil {
		return DefaultQuantity
	}
	return *in.Quantity
}
