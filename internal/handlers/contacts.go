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

// ContactHandler provides HTTP handlers for contact-form messages.
type ContactHandler struct {
	service *services.ContactService
}

func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Routes registers the public contact endpoint.
func (h *ContactHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
}

// AdminRoutes registers the admin contact inbox endpoints.
func (h *ContactHandler) AdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/{contactID}", h.UpdateStatus)
	r.Delete("/{contactID}", h.Delete)
}

// CreateContactRequest is the public contact form payload.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Subject) == "" ||
		strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	contact, err := h.service.Create(r.Context(), types.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	contacts, err := h.service.List(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// UpdateContactRequest moves a message through the inbox workflow.
type UpdateContactRequest struct {
	Status string `json:"status"`
}

func validContactStatus(s string) bool {
	switch s {
	case types.ContactNew, types.ContactRead, types.ContactArchived:
		return true
	}
	return false
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "contactID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validContactStatus(req.Status) {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	contact, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	contact.Status = req.Status
	updated, err := h.service.Update(r.Context(), contact)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "contactID")
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
