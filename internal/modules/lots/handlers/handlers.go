// Package handlers provides HTTP handlers for per-broker lot queries.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/clients/brokerage"
	"github.com/shkang/stockfolio/internal/modules/lots"
)

// Handler handles lot HTTP requests
type Handler struct {
	service *lots.Service
	log     zerolog.Logger
}

// NewHandler creates a new lots handler
func NewHandler(service *lots.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "lots").Logger(),
	}
}

// HandleGetLots handles GET /api/lots/{symbol}
func (h *Handler) HandleGetLots(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	fetched, err := h.service.RefreshLots(symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to fetch lots")
		if brokerage.IsConnectivity(err) {
			http.Error(w, "Portfolio backend unreachable", http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to fetch lots", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"symbol": symbol,
			"lots":   fetched,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// ValidateSellRequest asks whether quantity can be sold from the lot held at
// a specific broker.
type ValidateSellRequest struct {
	BrokerID string  `json:"broker_id"`
	Quantity float64 `json:"quantity"`
}

// HandleValidateSell handles POST /api/lots/{symbol}/validate-sell
func (h *Handler) HandleValidateSell(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	var req ValidateSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.BrokerID == "" {
		http.Error(w, "broker_id is required", http.StatusBadRequest)
		return
	}

	err := h.service.ValidateSellAgainstBroker(symbol, req.BrokerID, req.Quantity)
	if err != nil {
		if errors.Is(err, lots.ErrExceedsAvailable) {
			h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"data": map[string]interface{}{
					"valid":   false,
					"code":    "EXCEEDS_AVAILABLE",
					"message": err.Error(),
				},
				"metadata": map[string]interface{}{
					"timestamp": time.Now().Format(time.RFC3339),
				},
			})
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Sell validation failed")
		if brokerage.IsConnectivity(err) {
			http.Error(w, "Portfolio backend unreachable", http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"valid": true,
		},
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
