package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dorothy-center/apiserver/internal/services"
	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/dorothy-center/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// RegistrationHandler provides HTTP handlers for the registration
// workflow.
type RegistrationHandler struct {
	service *services.RegistrationService
	// confirmPage is the front-end page emailed links resolve to,
	// with the outcome appended as query parameters.
	confirmPage string
}

func NewRegistrationHandler(service *services.RegistrationService, frontendURL string) *RegistrationHandler {
	return &RegistrationHandler{
		service:     service,
		confirmPage: strings.TrimRight(frontendURL, "/") + "/confirmation-inscription",
	}
}

// Routes registers the public registration endpoints.
func (h *RegistrationHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/confirm-email", h.ConfirmEmail)
}

// AdminRoutes registers the admin registration endpoints. Auth guards
// are applied by the caller.
func (h *RegistrationHandler) AdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/{registrationID}", h.UpdateStatus)
}

// CreateRegistrationRequest is the public form payload.
type CreateRegistrationRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	EventID   int    `json:"event_id"`
}

// CreatedRegistration is the slice of the row echoed back on create.
type CreatedRegistration struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if strings.TrimSpace(req.FirstName) == "" ||
		strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Phone) == "" ||
		req.EventID < 1 {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	reg, err := h.service.Create(r.Context(), services.CreateRegistrationInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		EventID:   req.EventID,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "Already registered for this event")
		default:
			writeError(w, http.StatusInternalServerError, msgDatabaseError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration created, please confirm your email address",
		"registration": CreatedRegistration{
			ID:     reg.ID,
			Email:  reg.Email,
			Status: reg.Status,
		},
	})
}

// ConfirmEmail consumes an emailed confirmation link. The browser is
// always redirected to the front end with an outcome indicator; this
// endpoint never answers with JSON or a raw 500.
func (h *RegistrationHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	outcome := h.service.ConfirmEmail(r.Context(), r.URL.Query().Get("token"))

	params := url.Values{}
	switch outcome {
	case services.ConfirmOK, services.ConfirmAlreadyConfirmed:
		params.Set("success", string(outcome))
	default:
		params.Set("error", string(outcome))
	}

	http.Redirect(w, r, h.confirmPage+"?"+params.Encode(), http.StatusFound)
}

func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)

	regs, total, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"registrations": regs,
		"pagination":    newPagination(page, limit, total),
	})
}

// UpdateStatusRequest is the admin decision payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *RegistrationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "registrationID"))
	if id == "" {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Status != types.RegistrationConfirmed && req.Status != types.RegistrationCancelled {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if _, err := h.service.UpdateStatus(r.Context(), id, req.Status, identity.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Registration not found")
		case errors.Is(err, services.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "Invalid status transition")
		default:
			writeError(w, http.StatusInternalServerError, msgDatabaseError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
