package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/pantry/internal/model"
	"github.com/erazemk/pantry/internal/store"
)

// RecipesHandler handles recipe endpoints, including the structured links
// between recipes and grocery items.
type RecipesHandler struct {
	DB *sql.DB
}

// Create handles POST /recipes.
func (h *RecipesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewRecipe
	if !decodeValid(w, r, &req) {
		return
	}

	recipe, err := store.CreateRecipe(r.Context(), h.DB, req)
	if err != nil {
		serverError(w, r, "creating recipe", err)
		return
	}
	jsonResponse(w, http.StatusCreated, recipe)
}

// List handles GET /recipes.
func (h *RecipesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recipes, err := store.ListRecipes(r.Context(), h.DB, store.RecipeFilter{
		Title:      q.Get("title"),
		Ingredient: queryString(q, "ingredient"),
		Category:   queryString(q, "category"),
	})
	if err != nil {
		serverError(w, r, "listing recipes", err)
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	jsonResponse(w, http.StatusOK, recipes)
}

// Get handles GET /recipes/{id}.
func (h *RecipesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	recipe, err := store.GetRecipe(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "getting recipe", err)
		return
	}
	if recipe == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, recipe)
}

// Patch handles PATCH /recipes/{id}.
func (h *RecipesHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.RecipePatch
	if !decodeValid(w, r, &req) {
		return
	}

	recipe, err := store.PatchRecipe(r.Context(), h.DB, id, req)
	if err != nil {
		serverError(w, r, "patching recipe", err)
		return
	}
	if recipe == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, recipe)
}

// Delete handles DELETE /recipes/{id}.
func (h *RecipesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	found, err := store.DeleteRecipe(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "deleting recipe", err)
		return
	}
	if !found {
		notFound(w)
		return
	}
	deleted(w)
}

// Ingredients handles GET /recipes/{id}/ingredients.
func (h *RecipesHandler) Ingredients(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	recipe, err := store.GetRecipe(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "getting recipe", err)
		return
	}
	if recipe == nil {
		notFound(w)
		return
	}

	ingredients, err := store.ListRecipeIngredients(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "listing recipe ingredients", err)
		return
	}
	if ingredients == nil {
		ingredients = []model.RecipeIngredient{}
	}
	jsonResponse(w, http.StatusOK, ingredients)
}

// SetIngredient handles PUT /recipes/{id}/ingredients/{item_id}.
func (h *RecipesHandler) SetIngredient(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "item_id")
	if !ok {
		return
	}

	var req model.RecipeIngredientInput
	if !decodeValid(w, r, &req) {
		return
	}

	ing, err := store.SetRecipeIngredient(r.Context(), h.DB, recipeID, itemID, req)
	if err != nil {
		serverError(w, r, "setting recipe ingredient", err)
		return
	}
	if ing == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, ing)
}

// RemoveIngredient handles DELETE /recipes/{id}/ingredients/{item_id}. The
// grocery item itself is kept.
func (h *RecipesHandler) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "item_id")
	if !ok {
		return
	}

	removed, err := store.RemoveRecipeIngredient(r.Context(), h.DB, recipeID, itemID)
	if err != nil {
		serverError(w, r, "removing recipe ingredient", err)
		return
	}
	if !removed {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, detail{Detail: "Ingredient removed"})
}

// Shop handles POST /recipes/{id}/shopping: every linked item not in the
// pantry is put on the shopping list. The response lists those items.
func (h *RecipesHandler) Shop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := store.ShopRecipe(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "adding recipe to shopping list", err)
		return
	}
	if items == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}
