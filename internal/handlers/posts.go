package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/listing"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/models"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store"
)

type PostsHandler struct {
	store    store.Store
	pageSize int
	validate *validator.Validate
	log      logging.Logger
}

func NewPostsHandler(s store.Store, pageSize int, log logging.Logger) *PostsHandler {
	return &PostsHandler{
		store:    s,
		pageSize: pageSize,
		validate: validator.New(),
		log:      log,
	}
}

// List serves the public blog listing: the full post set filtered by search
// term and category, then paginated. A store failure is a 500, never an
// empty page, so the client can tell "no posts yet" from "failed to load".
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "listing posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	page := parsePositiveInt(r.URL.Query().Get("page"), 1)

	respondJSON(w, http.StatusOK, listing.Query(posts, search, category, page, h.pageSize))
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.store.GetPost(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "loading post failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

type createPostRequest struct {
	Title    string `json:"title" validate:"required"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Author   string `json:"author"`
	Category string `json:"category"`
	ReadTime string `json:"read_time"`
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	if req.Category == "" {
		req.Category = models.FallbackCategory
	}
	if req.ReadTime == "" {
		req.ReadTime = models.EstimateReadTime(req.Content)
	}
	if err := h.ensureCategory(r, req.Category); err != nil {
		h.log.Error(r.Context(), "registering category failed", "category", req.Category, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	created, err := h.store.CreatePost(r.Context(), models.Post{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Author:   req.Author,
		Category: req.Category,
		ReadTime: req.ReadTime,
	})
	if err != nil {
		h.log.Error(r.Context(), "creating post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch models.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		respondError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	if patch.Content != nil && *patch.Content == "" {
		respondError(w, http.StatusBadRequest, "content cannot be empty")
		return
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			*patch.Category = models.FallbackCategory
		}
		if err := h.ensureCategory(r, *patch.Category); err != nil {
			h.log.Error(r.Context(), "registering category failed", "category", *patch.Category, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to update post")
			return
		}
	}

	updated, err := h.store.UpdatePost(r.Context(), id, patch)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "updating post failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.DeletePost(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "deleting post failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ensureCategory registers a category the first time a post uses it.
func (h *PostsHandler) ensureCategory(r *http.Request, name string) error {
	err := h.store.AddCategory(r.Context(), name)
	if errors.Is(err, store.ErrDuplicateCategory) {
		return nil
	}
	return err
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
