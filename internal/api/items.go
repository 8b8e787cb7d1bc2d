package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/erazemk/pantry/internal/imaging"
	"github.com/erazemk/pantry/internal/model"
	"github.com/erazemk/pantry/internal/store"
)

// ItemsHandler handles grocery item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

func writeItems(w http.ResponseWriter, items []model.GroceryItem) {
	if items == nil {
		items = []model.GroceryItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.GroceryFilter{
		Name:     q.Get("name"),
		Category: queryString(q, "category"),
	}

	var err error
	if f.Need, err = queryBool(q, "need"); err != nil {
		writeValidationError(w, err)
		return
	}
	if f.Have, err = queryBool(q, "have"); err != nil {
		writeValidationError(w, err)
		return
	}

	items, err := store.ListGroceryItems(r.Context(), h.DB, f)
	if err != nil {
		serverError(w, r, "listing grocery items", err)
		return
	}
	writeItems(w, items)
}

// Inventory handles GET /items/inventory: items that are in the pantry.
func (h *ItemsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListGroceryItemsByFlag(r.Context(), h.DB, model.FlagHave, true)
	if err != nil {
		serverError(w, r, "listing inventory", err)
		return
	}
	writeItems(w, items)
}

// Shopping handles GET /items/shopping. It lists items with need=false;
// clients that want the items still to buy should use GET /items?need=true.
func (h *ItemsHandler) Shopping(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListGroceryItemsByFlag(r.Context(), h.DB, model.FlagNeed, false)
	if err != nil {
		serverError(w, r, "listing shopping list", err)
		return
	}
	writeItems(w, items)
}

// CreateShopping handles POST /items/shopping.
func (h *ItemsHandler) CreateShopping(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "shopping", store.CreateShoppingItem)
}

// CreateInventory handles POST /items/inventory.
func (h *ItemsHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "inventory", store.CreatePantryItem)
}

func (h *ItemsHandler) create(w http.ResponseWriter, r *http.Request, list string,
	insert func(context.Context, *sql.DB, model.NewGroceryItem) (*model.GroceryItem, error)) {
	var req model.NewGroceryItem
	if !decodeValid(w, r, &req) {
		return
	}

	item, err := insert(r.Context(), h.DB, req)
	if err != nil {
		serverError(w, r, "creating grocery item", err)
		return
	}

	groceryItemsCreated.WithLabelValues(list).Inc()
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := store.GetGroceryItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "getting grocery item", err)
		return
	}
	if item == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Replace handles PUT /items/{id}. Every field must be supplied.
func (h *ItemsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.GroceryItemReplace
	if !decodeValid(w, r, &req) {
		return
	}

	item, err := store.ReplaceGroceryItem(r.Context(), h.DB, id, req)
	if err != nil {
		serverError(w, r, "replacing grocery item", err)
		return
	}
	if item == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Patch handles PATCH /items/{id}. Only supplied fields change.
func (h *ItemsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.GroceryItemPatch
	if !decodeValid(w, r, &req) {
		return
	}

	item, err := store.PatchGroceryItem(r.Context(), h.DB, id, req)
	if err != nil {
		serverError(w, r, "patching grocery item", err)
		return
	}
	if item == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	found, err := store.DeleteGroceryItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "deleting grocery item", err)
		return
	}
	if !found {
		notFound(w)
		return
	}
	deleted(w)
}

// UploadImage handles PUT /items/{id}/image. The multipart field "image"
// must hold a JPEG or PNG; it is stored downscaled as JPEG.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// Room for the multipart envelope on top of the image itself.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+64<<10)

	file, _, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
		case errors.Is(err, http.ErrMissingFile):
			jsonError(w, http.StatusUnprocessableEntity, "image: field required")
		default:
			jsonError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	case err != nil:
		writeValidationError(w, model.NewValidationError("image", err.Error()))
		return
	}

	found, err := store.SetGroceryItemImage(r.Context(), h.DB, id, photo.Data, photo.MIME)
	if err != nil {
		serverError(w, r, "saving grocery item image", err)
		return
	}
	if !found {
		notFound(w)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"detail": "Image uploaded",
		"width":  photo.Width,
		"height": photo.Height,
	})
}

// GetImage handles GET /items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	data, mime, err := store.GetGroceryItemImage(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "getting grocery item image", err)
		return
	}
	if data == nil {
		h.imageNotFound(w, r, id)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// DeleteImage handles DELETE /items/{id}/image.
func (h *ItemsHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	cleared, err := store.ClearGroceryItemImage(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "clearing grocery item image", err)
		return
	}
	if !cleared {
		h.imageNotFound(w, r, id)
		return
	}
	jsonResponse(w, http.StatusOK, detail{Detail: "Image deleted"})
}

// imageNotFound tells a missing item apart from an item without a photo.
func (h *ItemsHandler) imageNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := store.GetGroceryItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "getting grocery item", err)
		return
	}
	if item == nil {
		notFound(w)
		return
	}
	jsonError(w, http.StatusNotFound, "Image not found")
}
