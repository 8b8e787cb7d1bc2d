package store

import (
	"context"
	"testing"

	"github.com/erazemk/pantry/internal/db"
	"github.com/erazemk/pantry/internal/model"
)

func TestCreateAndGetRecipe(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	r, err := CreateRecipe(ctx, database, model.NewRecipe{
		Title: "Pancakes", Instructions: "Mix and fry.", Ingredients: "flour, eggs, milk",
	})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	if r.Category != "general" {
		t.Errorf("expected default category, got %q", r.Category)
	}

	got, err := GetRecipe(ctx, database, r.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if *got != *r {
		t.Errorf("expected %+v, got %+v", *r, *got)
	}

	missing, err := GetRecipe(ctx, database, r.ID+1)
	if err != nil {
		t.Fatalf("GetRecipe missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing recipe")
	}
}

func TestListRecipesFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateRecipe(ctx, database, model.NewRecipe{Title: "Pancakes", Ingredients: "Flour, Eggs", Category: ptr("breakfast")})
	CreateRecipe(ctx, database, model.NewRecipe{Title: "Omelette", Ingredients: "eggs, cheese", Category: ptr("breakfast")})
	CreateRecipe(ctx, database, model.NewRecipe{Title: "Pasta", Ingredients: "pasta, tomatoes"})
	CreateRecipe(ctx, database, model.NewRecipe{Title: "Žganci", Ingredients: "ajdova moka, Čebula", Category: ptr("main")})

	tests := []struct {
		name   string
		filter RecipeFilter
		want   []string
	}{
		{"no filter", RecipeFilter{}, []string{"Pancakes", "Omelette", "Pasta", "Žganci"}},
		{"title", RecipeFilter{Title: "PAN"}, []string{"Pancakes"}},
		{"ingredient case-insensitive", RecipeFilter{Ingredient: ptr("EGGS")}, []string{"Pancakes", "Omelette"}},
		{"ingredient and category", RecipeFilter{Ingredient: ptr("eggs"), Category: ptr("breakfast")}, []string{"Pancakes", "Omelette"}},
		{"category", RecipeFilter{Category: ptr("general")}, []string{"Pasta"}},
		{"empty ingredient matches all", RecipeFilter{Ingredient: ptr("")}, []string{"Pancakes", "Omelette", "Pasta", "Žganci"}},
		{"title non-ASCII case", RecipeFilter{Title: "žGAN"}, []string{"Žganci"}},
		{"ingredient non-ASCII case", RecipeFilter{Ingredient: ptr("čEBULA")}, []string{"Žganci"}},
		{"no match", RecipeFilter{Title: "soup"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := ListRecipes(ctx, database, tt.filter)
			if err != nil {
				t.Fatalf("ListRecipes: %v", err)
			}
			if len(recipes) != len(tt.want) {
				t.Fatalf("expected %d recipes, got %d: %+v", len(tt.want), len(recipes), recipes)
			}
			for i, r := range recipes {
				if r.Title != tt.want[i] {
					t.Errorf("recipe %d: expected %q, got %q", i, tt.want[i], r.Title)
				}
			}
		})
	}
}

func TestPatchRecipe(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	r, _ := CreateRecipe(ctx, database, model.NewRecipe{Title: "Soup", Instructions: "Boil.", Ingredients: "water"})

	got, err := PatchRecipe(ctx, database, r.ID, model.RecipePatch{Ingredients: ptr("water, salt")})
	if err != nil {
		t.Fatalf("PatchRecipe: %v", err)
	}
	if got.Ingredients != "water, salt" || got.Title != "Soup" || got.Instructions != "Boil." {
		t.Errorf("unexpected recipe after patch: %+v", got)
	}

	missing, err := PatchRecipe(ctx, database, r.ID+1, model.RecipePatch{Title: ptr("x")})
	if err != nil {
		t.Fatalf("PatchRecipe missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing recipe")
	}
}

func TestDeleteRecipe(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	r, _ := CreateRecipe(ctx, database, model.NewRecipe{Title: "Soup"})

	deleted, err := DeleteRecipe(ctx, database, r.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteRecipe: deleted=%v err=%v", deleted, err)
	}
	deleted, _ = DeleteRecipe(ctx, database, r.ID)
	if deleted {
		t.Error("expected second delete to report false")
	}
}
