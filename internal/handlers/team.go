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

// TeamHandler provides HTTP handlers for team member profiles.
type TeamHandler struct {
	service *services.TeamService
}

func NewTeamHandler(service *services.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// Routes registers the public team endpoints. Only active members are
// listed publicly.
func (h *TeamHandler) Routes(r chi.Router) {
	r.Get("/", h.ListPublic)
}

// AdminRoutes registers the admin team endpoints.
func (h *TeamHandler) AdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{memberID}", h.Update)
	r.Patch("/{memberID}", h.Update)
	r.Delete("/{memberID}", h.Delete)
}

func (h *TeamHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *TeamHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// TeamMemberRequest is the admin create/update payload.
type TeamMemberRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
	PhotoURL  string `json:"photo_url"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active"`
}

func (req *TeamMemberRequest) validate() bool {
	return strings.TrimSpace(req.Name) != "" && strings.TrimSpace(req.Role) != ""
}

func (req *TeamMemberRequest) toMember() types.TeamMember {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return types.TeamMember{
		Name:      req.Name,
		Role:      req.Role,
		Bio:       req.Bio,
		PhotoURL:  req.PhotoURL,
		SortOrder: req.SortOrder,
		Active:    active,
	}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	member, err := h.service.Create(r.Context(), req.toMember())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// TeamMemberUpdateRequest carries a partial update.
type TeamMemberUpdateRequest struct {
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	Bio       *string `json:"bio"`
	PhotoURL  *string `json:"photo_url"`
	SortOrder *int    `json:"sort_order"`
	Active    *bool   `json:"active"`
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "memberID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	member, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	var req TeamMemberUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.Bio != nil {
		member.Bio = *req.Bio
	}
	if req.PhotoURL != nil {
		member.PhotoURL = *req.PhotoURL
	}
	if req.SortOrder != nil {
		member.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		member.Active = *req.Active
	}

	updated, err := h.service.Update(r.Context(), member)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "memberID")
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
