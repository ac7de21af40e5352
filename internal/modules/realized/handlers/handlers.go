// Package handlers provides HTTP handlers for the realized-profit view.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
	"github.com/shkang/stockfolio/internal/modules/realized"
)

// Handler handles realized-profit HTTP requests
type Handler struct {
	controller *realized.Controller
	log        zerolog.Logger
}

// NewHandler creates a new realized-profit handler
func NewHandler(controller *realized.Controller, log zerolog.Logger) *Handler {
	return &Handler{
		controller: controller,
		log:        log.With().Str("handler", "realized").Logger(),
	}
}

// HandleGetSnapshot handles GET /api/realized
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := h.controller.Snapshot()

	response := map[string]interface{}{
		"data": snapshot,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// SetFilterRequest updates one filter criterion
type SetFilterRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// HandleSetFilter handles POST /api/realized/filter
func (h *Handler) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req SetFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.controller.SetFilterField(req.Field, req.Value); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"accepted": true,
			"field":    req.Field,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusAccepted, response)
}

// HandleClearFilter handles POST /api/realized/filter/clear
func (h *Handler) HandleClearFilter(w http.ResponseWriter, r *http.Request) {
	h.controller.ClearFilter()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"accepted": true,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusAccepted, response)
}

// SetCurrencyRequest switches the display currency for statistics
type SetCurrencyRequest struct {
	Currency string `json:"currency"`
}

// HandleSetCurrency handles POST /api/realized/currency
func (h *Handler) HandleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req SetCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cur := domain.Currency(req.Currency)
	if cur != domain.CurrencyKRW && cur != domain.CurrencyUSD {
		http.Error(w, "currency must be KRW or USD", http.StatusBadRequest)
		return
	}

	h.controller.SetCurrency(cur)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"currency": cur,
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
