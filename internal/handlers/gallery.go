package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dorothy-center/apiserver/internal/services"
	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/dorothy-center/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// GalleryHandler provides HTTP handlers for gallery images.
type GalleryHandler struct {
	service *services.GalleryService
}

func NewGalleryHandler(service *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// Routes registers the public gallery endpoints.
func (h *GalleryHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
}

// AdminRoutes registers the admin gallery endpoints.
func (h *GalleryHandler) AdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{imageID}", h.Update)
	r.Patch("/{imageID}", h.Update)
	r.Delete("/{imageID}", h.Delete)
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	images, err := h.service.List(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, images)
}

// GalleryImageRequest is the admin create/update payload.
type GalleryImageRequest struct {
	Title     string   `json:"title"`
	ImageURL  string   `json:"image_url"`
	Category  string   `json:"category"`
	SortOrder int      `json:"sort_order"`
	Tags      []string `json:"tags"`
}

func (req *GalleryImageRequest) validate() bool {
	return strings.TrimSpace(req.Title) != "" && strings.TrimSpace(req.ImageURL) != ""
}

func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GalleryImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	image, err := h.service.Create(r.Context(), types.GalleryImage{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		Category:  req.Category,
		SortOrder: req.SortOrder,
		Tags:      tags,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusCreated, image)
}

// GalleryImageUpdateRequest carries a partial update.
type GalleryImageUpdateRequest struct {
	Title     *string   `json:"title"`
	ImageURL  *string   `json:"image_url"`
	Category  *string   `json:"category"`
	SortOrder *int      `json:"sort_order"`
	Tags      *[]string `json:"tags"`
}

func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "imageID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	image, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	var req GalleryImageUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Title != nil {
		image.Title = *req.Title
	}
	if req.ImageURL != nil {
		image.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		image.Category = *req.Category
	}
	if req.SortOrder != nil {
		image.SortOrder = *req.SortOrder
	}
	if req.Tags != nil {
		image.Tags = *req.Tags
		if image.Tags == nil {
			image.Tags = []string{}
		}
	}

	updated, err := h.service.Update(r.Context(), image)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "imageID")
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
