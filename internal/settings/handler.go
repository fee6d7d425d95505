package settings

import (
	"encoding/json"
	"net/http"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/api"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, h.store.All())
}

// Update accepts POST, PUT, and PATCH identically: the body is merged
// into the current settings and the result is returned.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	api.JSON(w, http.StatusOK, h.store.Merge(updates))
}
