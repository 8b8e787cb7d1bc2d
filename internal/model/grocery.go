package model

import "strings"

// Defaults applied to grocery items and recipes when a create payload omits
// the field.
const (
	DefaultCategory = "general"
	DefaultQuantity = 1
)

// GroceryItem is a single shopping-list or pantry entry. Have and Need are
// independent flags.
type GroceryItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Have     bool   `json:"have"`
	Need     bool   `json:"need"`
}

// Flag names one of the two boolean columns of a grocery item.
type Flag string

// Grocery item flags.
const (
	FlagHave Flag = "have"
	FlagNeed Flag = "need"
)

// Valid reports whether f names a real column.
func (f Flag) Valid() bool {
	return f == FlagHave || f == FlagNeed
}

// NewGroceryItem is the create payload shared by the shopping and pantry
// endpoints. Have/need are not part of it; the creation path decides them.
type NewGroceryItem struct {
	Name     string  `json:"name"`
	Quantity *int    `json:"quantity"`
	Unit     string  `json:"unit"`
	Category *string `json:"category"`
}

// Validate checks the required fields.
func (n NewGroceryItem) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return missing("name")
	}
	if n.Quantity != nil && *n.Quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	return nil
}

// Item builds the row to insert, applying defaults and the given flags.
func (n NewGroceryItem) Item(have, need bool) GroceryItem {
	item := GroceryItem{
		Name:     NormalizeName(n.Name),
		Quantity: DefaultQuantity,
		Unit:     n.Unit,
		Category: DefaultCategory,
		Have:     have,
		Need:     need,
	}
	if n.Quantity != nil {
		item.Quantity = *n.Quantity
	}
	if n.Category != nil {
		item.Category = *n.Category
	}
	return item
}

// GroceryItemReplace is the full-replace payload. Every field is required;
// an omitted or null field fails validation instead of falling back to a
// default.
type GroceryItemReplace struct {
	Name     *string `json:"name"`
	Quantity *int    `json:"quantity"`
	Unit     *string `json:"unit"`
	Category *string `json:"category"`
	Have     *bool   `json:"have"`
	Need     *bool   `json:"need"`
}

// Validate checks that every field is present.
func (r GroceryItemReplace) Validate() error {
	switch {
	case r.Name == nil:
		return missing("name")
	case strings.TrimSpace(*r.Name) == "":
		return invalid("name", "must not be blank")
	case r.Quantity == nil:
		return missing("quantity")
	case *r.Quantity < 0:
		return invalid("quantity", "must not be negative")
	case r.Unit == nil:
		return missing("unit")
	case r.Category == nil:
		return missing("category")
	case r.Have == nil:
		return missing("have")
	case r.Need == nil:
		return missing("need")
	}
	return nil
}

// Apply overwrites every field of item. It must only be called after
// Validate succeeded.
func (r GroceryItemReplace) Apply(item *GroceryItem) {
	item.Name = NormalizeName(*r.Name)
	item.Quantity = *r.Quantity
	item.Unit = *r.Unit
	item.Category = *r.Category
	item.Have = *r.Have
	item.Need = *r.Need
}

// GroceryItemPatch is the partial-update payload. Nil fields are left
// unchanged.
type GroceryItemPatch struct {
	Name     *string `json:"name"`
	Quantity *int    `json:"quantity"`
	Unit     *string `json:"unit"`
	Category *string `json:"category"`
	Have     *bool   `json:"have"`
	Need     *bool   `json:"need"`
}

// Validate checks the fields that are present.
func (p GroceryItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "must not be blank")
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	return nil
}

// Apply copies the present fields onto item.
func (p GroceryItemPatch) Apply(item *GroceryItem) {
	if p.Name != nil {
		item.Name = NormalizeName(*p.Name)
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Have != nil {
		item.Have = *p.Have
	}
	if p.Need != nil {
		item.Need = *p.Need
	}
}
