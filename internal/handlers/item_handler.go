package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"rewearBack/internal/economy"
	"rewearBack/internal/mirror"
	"rewearBack/internal/models"
	"rewearBack/utils"
)

type ItemHandler struct {
	Engine  *economy.Engine
	Mirror  *mirror.Mirror
	Storage *utils.Storage
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	item.OwnerID = userID(r)

	res, err := h.Engine.AddItem(r.Context(), item)
	if err != nil {
		http.Error(w, "Missing identity", http.StatusUnauthorized)
		return
	}
	if !res.Success {
		w.WriteHeader(http.StatusInternalServerError)
	} else {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(res)
}

func (h *ItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	// Serve from the mirror when it is synced; the one-shot query is the
	// cold-start fallback.
	if h.Mirror.State(mirror.KeyItems) == mirror.StateSynced {
		json.NewEncoder(w).Encode(h.Mirror.Items())
		return
	}
	items, err := h.Engine.Items.GetItems(r.Context())
	if err != nil {
		http.Error(w, "Failed to get items", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(items)
}

func (h *ItemHandler) GetAvailableItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Engine.Items.GetAvailableItems(r.Context())
	if err != nil {
		http.Error(w, "Failed to get available items", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(items)
}

func (h *ItemHandler) GetUserItems(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get(":user_id")
	items, err := h.Engine.Items.GetUserItems(r.Context(), uid)
	if err != nil {
		http.Error(w, "Invalid user_id", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(items)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get(":id")
	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.Engine.UpdateItem(r.Context(), itemID, updates)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get(":id")
	res, err := h.Engine.DeleteItem(r.Context(), itemID)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(res)
}

// UploadItemImage stores one image in the object store and returns its
// URI; the client attaches returned URIs to the listing it creates.
func (h *ItemHandler) UploadItemImage(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		http.Error(w, "Image storage is not configured", http.StatusServiceUnavailable)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	url, err := h.Storage.UploadItemImage(data, header.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "Failed to upload image", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
