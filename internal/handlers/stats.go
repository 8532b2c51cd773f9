package handlers

import (
	"net/http"

	"github.com/dorothy-center/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// StatsHandler provides the admin dashboard counters.
type StatsHandler struct {
	service *services.StatsService
}

func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// AdminRoutes registers the stats endpoint. Auth guards are applied by
// the caller.
func (h *StatsHandler) AdminRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Collect(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
