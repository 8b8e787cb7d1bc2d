package store

import (
	"context"
	"testing"

	"github.com/erazemk/pantry/internal/db"
	"github.com/erazemk/pantry/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestCreateShoppingAndPantryItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shop, err := CreateShoppingItem(ctx, database, model.NewGroceryItem{Name: "Eggs"})
	if err != nil {
		t.Fatalf("CreateShoppingItem: %v", err)
	}
	if shop.Have || !shop.Need {
		t.Errorf("shopping item: expected have=false need=true, got have=%v need=%v", shop.Have, shop.Need)
	}
	if shop.Quantity != 1 || shop.Category != "general" || shop.Unit != "" {
		t.Errorf("expected defaults, got %+v", shop)
	}

	pantry, err := CreatePantryItem(ctx, database, model.NewGroceryItem{
		Name: "Flour", Quantity: ptr(2), Unit: "kg", Category: ptr("baking"),
	})
	if err != nil {
		t.Fatalf("CreatePantryItem: %v", err)
	}
	if !pantry.Have || pantry.Need {
		t.Errorf("pantry item: expected have=true need=false, got have=%v need=%v", pantry.Have, pantry.Need)
	}
	if pantry.Quantity != 2 || pantry.Unit != "kg" || pantry.Category != "baking" {
		t.Errorf("expected supplied values, got %+v", pantry)
	}
	if pantry.ID == shop.ID {
		t.Error("expected distinct ids")
	}
}

func TestListGroceryItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateShoppingItem(ctx, database, model.NewGroceryItem{Name: "Whole Milk", Category: ptr("dairy")})
	CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Oat milk", Category: ptr("dairy")})
	CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Bread"})
	CreateShoppingItem(ctx, database, model.NewGroceryItem{Name: "100%_juice"})

	tests := []struct {
		name   string
		filter GroceryFilter
		want   []string
	}{
		{"no filter", GroceryFilter{}, []string{"Whole Milk", "Oat milk", "Bread", "100%_juice"}},
		{"name case-insensitive", GroceryFilter{Name: "MILK"}, []string{"Whole Milk", "Oat milk"}},
		{"name and have", GroceryFilter{Name: "milk", Have: ptr(true)}, []string{"Oat milk"}},
		{"need", GroceryFilter{Need: ptr(true)}, []string{"Whole Milk", "100%_juice"}},
		{"category", GroceryFilter{Category: ptr("general")}, []string{"Bread", "100%_juice"}},
		{"empty category", GroceryFilter{Category: ptr("")}, nil},
		{"literal percent", GroceryFilter{Name: "%"}, []string{"100%_juice"}},
		{"literal underscore", GroceryFilter{Name: "_"}, []string{"100%_juice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ListGroceryItems(ctx, database, tt.filter)
			if err != nil {
				t.Fatalf("ListGroceryItems: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("expected %d items, got %d: %+v", len(tt.want), len(items), items)
			}
			for i, item := range items {
				if item.Name != tt.want[i] {
					t.Errorf("item %d: expected %q, got %q", i, tt.want[i], item.Name)
				}
			}
		})
	}
}

func TestListGroceryItemsByFlag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateShoppingItem(ctx, database, model.NewGroceryItem{Name: "Eggs"})
	CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Salt"})

	noNeed, err := ListGroceryItemsByFlag(ctx, database, model.FlagNeed, false)
	if err != nil {
		t.Fatalf("ListGroceryItemsByFlag: %v", err)
	}
	if len(noNeed) != 1 || noNeed[0].Name != "Salt" {
		t.Errorf("expected only Salt with need=false, got %+v", noNeed)
	}

	noHave, _ := ListGroceryItemsByFlag(ctx, database, model.FlagHave, false)
	if len(noHave) != 1 || noHave[0].Name != "Eggs" {
		t.Errorf("expected only Eggs with have=false, got %+v", noHave)
	}

	if _, err := ListGroceryItemsByFlag(ctx, database, model.Flag("image"), true); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestGetGroceryItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetGroceryItem(context.Background(), database, 42)
	if err != nil {
		t.Fatalf("GetGroceryItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil, got %+v", item)
	}
}

func TestReplaceGroceryItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateShoppingItem(ctx, database, model.NewGroceryItem{Name: "Eggs"})

	got, err := ReplaceGroceryItem(ctx, database, item.ID, model.GroceryItemReplace{
		Name: ptr("Free-range eggs"), Quantity: ptr(12), Unit: ptr("pcs"),
		Category: ptr("dairy"), Have: ptr(true), Need: ptr(false),
	})
	if err != nil {
		t.Fatalf("ReplaceGroceryItem: %v", err)
	}
	want := model.GroceryItem{
		ID: item.ID, Name: "Free-range eggs", Quantity: 12, Unit: "pcs",
		Category: "dairy", Have: true, Need: false,
	}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}

	stored, _ := GetGroceryItem(ctx, database, item.ID)
	if *stored != want {
		t.Errorf("expected stored %+v, got %+v", want, *stored)
	}

	missing, err := ReplaceGroceryItem(ctx, database, item.ID+100, model.GroceryItemReplace{
		Name: ptr("x"), Quantity: ptr(1), Unit: ptr(""), Category: ptr(""), Have: ptr(false), Need: ptr(false),
	})
	if err != nil {
		t.Fatalf("ReplaceGroceryItem missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing item, got %+v", missing)
	}
}

func TestPatchGroceryItemOnlyTouchesPresentFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreatePantryItem(ctx, database, model.NewGroceryItem{
		Name: "Rice", Quantity: ptr(1), Unit: "kg", Category: ptr("grains"),
	})

	got, err := PatchGroceryItem(ctx, database, item.ID, model.GroceryItemPatch{Quantity: ptr(3)})
	if err != nil {
		t.Fatalf("PatchGroceryItem: %v", err)
	}
	want := *item
	want.Quantity = 3
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}

	got, _ = PatchGroceryItem(ctx, database, item.ID, model.GroceryItemPatch{Need: ptr(true)})
	if !got.Have || !got.Need {
		t.Errorf("expected have and need both true, got %+v", got)
	}

	missing, err := PatchGroceryItem(ctx, database, item.ID+1, model.GroceryItemPatch{Quantity: ptr(3)})
	if err != nil {
		t.Fatalf("PatchGroceryItem missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing item, got %+v", missing)
	}

	items, _ := ListGroceryItems(ctx, database, GroceryFilter{})
	if len(items) != 1 {
		t.Errorf("expected patching a missing id to create nothing, got %d items", len(items))
	}
}

func TestDeleteGroceryItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateShoppingItem(ctx, database, model.NewGroceryItem{Name: "Eggs"})

	deleted, err := DeleteGroceryItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("DeleteGroceryItem: %v", err)
	}
	if !deleted {
		t.Error("expected item to be deleted")
	}

	deleted, err = DeleteGroceryItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("DeleteGroceryItem again: %v", err)
	}
	if deleted {
		t.Error("expected second delete to report false")
	}
}

func TestGroceryItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Cheese"})

	data, _, err := GetGroceryItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetGroceryItemImage: %v", err)
	}
	if data != nil {
		t.Error("expected no image initially")
	}

	ok, err := SetGroceryItemImage(ctx, database, item.ID, []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil || !ok {
		t.Fatalf("SetGroceryItemImage: ok=%v err=%v", ok, err)
	}

	data, mime, _ := GetGroceryItemImage(ctx, database, item.ID)
	if len(data) != 2 || mime != "image/jpeg" {
		t.Errorf("expected stored jpeg, got %d bytes %q", len(data), mime)
	}

	ok, _ = ClearGroceryItemImage(ctx, database, item.ID)
	if !ok {
		t.Error("expected clear to report true")
	}
	ok, _ = ClearGroceryItemImage(ctx, database, item.ID)
	if ok {
		t.Error("expected second clear to report false")
	}

	ok, _ = SetGroceryItemImage(ctx, database, item.ID+1, []byte{1}, "image/jpeg")
	if ok {
		t.Error("expected set on missing item to report false")
	}
}

func TestListGroceryItemsNormalizesNameSearch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Cr\u00e8me fra\u00eeche"}); err != nil {
		t.Fatalf("CreatePantryItem: %v", err)
	}

	items, err := ListGroceryItems(ctx, database, GroceryFilter{Name: "cre\u0300me"})
	if err != nil {
		t.Fatalf("ListGroceryItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Cr\u00e8me fra\u00eeche" {
		t.Errorf("expected normalised match, got %+v", items)
	}
}

func TestListGroceryItemsFoldsNonASCIICase(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Čokolada"})
	CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Ölive oil"})
	CreatePantryItem(ctx, database, model.NewGroceryItem{Name: "Bread"})

	tests := []struct {
		query string
		want  []string
	}{
		{"čokolada", []string{"Čokolada"}},
		{"ČOKOLADA", []string{"Čokolada"}},
		{"öl", []string{"Ölive oil"}},
		{"ÖL", []string{"Ölive oil"}},
		{"OIL", []string{"Ölive oil"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			items, err := ListGroceryItems(ctx, database, GroceryFilter{Name: tt.query})
			if err != nil {
				t.Fatalf("ListGroceryItems: %v", err)
			}
			var got []string
			for _, it := range items {
				got = append(got, it.Name)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && got[0] != tt.want[0]) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
