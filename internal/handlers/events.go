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

// EventHandler provides HTTP handlers for events.
type EventHandler struct {
	service *services.EventService
}

func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// Routes registers the public event endpoints.
func (h *EventHandler) Routes(r chi.Router) {
	r.Get("/", h.ListPublic)
	r.Get("/{eventID}", h.Get)
}

// AdminRoutes registers the admin event endpoints. Auth guards are
// applied by the caller.
func (h *EventHandler) AdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{eventID}", h.Update)
	r.Patch("/{eventID}", h.Update)
	r.Delete("/{eventID}", h.Delete)
}

func (h *EventHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")

	events, err := h.service.ListPublic(r.Context(), status, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")

	events, err := h.service.ListAll(r.Context(), status, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// EventRequest is the admin create/update payload.
type EventRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Content         string   `json:"content"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Location        string   `json:"location"`
	ImageURL        string   `json:"image_url"`
	Category        string   `json:"category"`
	Status          string   `json:"status"`
	Featured        bool     `json:"featured"`
	MaxParticipants int      `json:"max_participants"`
	Tags            []string `json:"tags"`
}

func (req *EventRequest) validate() bool {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Date) == "" ||
		strings.TrimSpace(req.Location) == "" {
		return false
	}
	if !types.ValidEventCategory(req.Category) {
		return false
	}
	if req.Status != "" && !types.ValidEventStatus(req.Status) {
		return false
	}
	return true
}

func (req *EventRequest) toEvent() types.Event {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return types.Event{
		Title:           req.Title,
		Description:     req.Description,
		Content:         req.Content,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		ImageURL:        req.ImageURL,
		Category:        req.Category,
		Status:          req.Status,
		Featured:        req.Featured,
		MaxParticipants: req.MaxParticipants,
		Tags:            tags,
	}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	event := req.toEvent()
	event.CreatedBy = identity.ID

	created, err := h.service.Create(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// EventUpdateRequest carries a partial update: only provided fields
// change.
type EventUpdateRequest struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Content         *string   `json:"content"`
	Date            *string   `json:"date"`
	Time            *string   `json:"time"`
	Location        *string   `json:"location"`
	ImageURL        *string   `json:"image_url"`
	Category        *string   `json:"category"`
	Status          *string   `json:"status"`
	Featured        *bool     `json:"featured"`
	MaxParticipants *int      `json:"max_participants"`
	Tags            *[]string `json:"tags"`
}

func (req *EventUpdateRequest) apply(event *types.Event) bool {
	if req.Category != nil && !types.ValidEventCategory(*req.Category) {
		return false
	}
	if req.Status != nil && !types.ValidEventStatus(*req.Status) {
		return false
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Content != nil {
		event.Content = *req.Content
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.ImageURL != nil {
		event.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.Featured != nil {
		event.Featured = *req.Featured
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.Tags != nil {
		event.Tags = *req.Tags
	}
	return true
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	var req EventUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.apply(&event) {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	updated, err := h.service.Update(r.Context(), event)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
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
