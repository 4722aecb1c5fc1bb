package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store"
)

type CategoriesHandler struct {
	store store.Store
	log   logging.Logger
}

func NewCategoriesHandler(s store.Store, log logging.Logger) *CategoriesHandler {
	return &CategoriesHandler{store: s, log: log}
}

// List returns the category set with the "all" sentinel first, the order the
// filter bar renders them in.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "listing categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	respondJSON(w, http.StatusOK, append([]string{models.AllCategories}, categories...))
}

type addCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoriesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	err := h.store.AddCategory(r.Context(), req.Name)
	if errors.Is(err, store.ErrDuplicateCategory) {
		respondError(w, http.StatusConflict, "category already exists")
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "adding category failed", "name", req.Name, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to add category")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Delete removes a category. Its posts are moved to the fallback bucket by
// the store; the sentinel is never removable.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := h.store.DeleteCategory(r.Context(), name)
	if errors.Is(err, store.ErrReservedCategory) {
		respondError(w, http.StatusBadRequest, "category is reserved")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "deleting category failed", "name", name, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
