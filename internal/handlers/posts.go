package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dorothy-center/apiserver/internal/services"
	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/dorothy-center/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// PostHandler provides HTTP handlers for news articles.
type PostHandler struct {
	service *services.PostService
}

func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Routes registers the public post endpoints.
func (h *PostHandler) Routes(r chi.Router) {
	r.Get("/", h.ListPublic)
	r.Get("/{postID}", h.Get)
}

// AdminRoutes registers the admin post endpoints.
func (h *PostHandler) AdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{postID}", h.Update)
	r.Patch("/{postID}", h.Update)
	r.Delete("/{postID}", h.Delete)
}

func (h *PostHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPublic(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListAll(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	post, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// PostRequest is the admin create/update payload.
type PostRequest struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	ImageURL string   `json:"image_url"`
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Tags     []string `json:"tags"`
}

func (req *PostRequest) validate() bool {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return false
	}
	switch req.Status {
	case "", types.PostStatusDraft, types.PostStatusPublished:
		return true
	}
	return false
}

func (req *PostRequest) toPost() types.Post {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	post := types.Post{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
		Status:   req.Status,
		Tags:     tags,
	}
	if post.Status == types.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	return post
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	created, err := h.service.Create(r.Context(), req.toPost())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PostUpdateRequest carries a partial update.
type PostUpdateRequest struct {
	Title    *string   `json:"title"`
	Excerpt  *string   `json:"excerpt"`
	Content  *string   `json:"content"`
	ImageURL *string   `json:"image_url"`
	Category *string   `json:"category"`
	Status   *string   `json:"status"`
	Tags     *[]string `json:"tags"`
}

// apply merges the provided fields onto post. It reports whether the
// provided values are valid.
func (req *PostUpdateRequest) apply(post *types.Post) bool {
	if req.Status != nil {
		switch *req.Status {
		case types.PostStatusDraft, types.PostStatusPublished:
		default:
			return false
		}
		if *req.Status == types.PostStatusPublished && post.Status != types.PostStatusPublished {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Status = *req.Status
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
		if post.Tags == nil {
			post.Tags = []string{}
		}
	}
	return true
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	post, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	var req PostUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.apply(&post) {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	updated, err := h.service.Update(r.Context(), post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
