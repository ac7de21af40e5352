// Package handlers provides HTTP handlers for portfolio totals.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/clients/brokerage"
	"github.com/shkang/stockfolio/internal/modules/portfolio"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetOverview handles GET /api/portfolio/overview
func (h *Handler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.GetOverview()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build portfolio overview")
		if brokerage.IsConnectivity(err) {
			http.Error(w, "Portfolio backend unreachable", http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to build portfolio overview", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": overview,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
