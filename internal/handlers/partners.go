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

// PartnerHandler provides HTTP handlers for partner organizations.
type PartnerHandler struct {
	service *services.PartnerService
}

func NewPartnerHandler(service *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// Routes registers the public partner endpoints. Only active partners
// are listed publicly.
func (h *PartnerHandler) Routes(r chi.Router) {
	r.Get("/", h.ListPublic)
}

// AdminRoutes registers the admin partner endpoints.
func (h *PartnerHandler) AdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{partnerID}", h.Update)
	r.Patch("/{partnerID}", h.Update)
	r.Delete("/{partnerID}", h.Delete)
}

func (h *PartnerHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.List(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (h *PartnerHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.List(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

// PartnerRequest is the admin create/update payload.
type PartnerRequest struct {
	Name        string `json:"name"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (req *PartnerRequest) toPartner() types.Partner {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return types.Partner{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		Description: req.Description,
		Active:      active,
	}
}

func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	partner, err := h.service.Create(r.Context(), req.toPartner())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusCreated, partner)
}

// PartnerUpdateRequest carries a partial update.
type PartnerUpdateRequest struct {
	Name        *string `json:"name"`
	LogoURL     *string `json:"logo_url"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "partnerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	partner, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	var req PartnerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.LogoURL != nil {
		partner.LogoURL = *req.LogoURL
	}
	if req.Website != nil {
		partner.Website = *req.Website
	}
	if req.Description != nil {
		partner.Description = *req.Description
	}
	if req.Active != nil {
		partner.Active = *req.Active
	}

	updated, err := h.service.Update(r.Context(), partner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "partnerID")
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
