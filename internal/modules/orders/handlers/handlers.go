// Package handlers provides HTTP handlers for order submission.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/clients/brokerage"
	"github.com/shkang/stockfolio/internal/domain"
	"github.com/shkang/stockfolio/internal/modules/lots"
	"github.com/shkang/stockfolio/internal/services"
)

// Handler handles order HTTP requests
type Handler struct {
	trades *services.TradeService
	log    zerolog.Logger
}

// NewHandler creates a new orders handler
func NewHandler(trades *services.TradeService, log zerolog.Logger) *Handler {
	return &Handler{
		trades: trades,
		log:    log.With().Str("handler", "orders").Logger(),
	}
}

// SubmitOrderRequest is the order form payload
type SubmitOrderRequest struct {
	Symbol          string  `json:"symbol"`
	Quantity        float64 `json:"quantity"`
	Price           float64 `json:"price"`
	BrokerID        string  `json:"broker_id"`
	Side            string  `json:"transaction_type"`
	MarketType      string  `json:"market_type"`
	TransactionDate string  `json:"transaction_date,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// HandleSubmitOrder handles POST /api/orders
func (h *Handler) HandleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.trades.SubmitOrder(services.SubmitOrderInput{
		Symbol:          req.Symbol,
		Quantity:        req.Quantity,
		Price:           req.Price,
		BrokerID:        req.BrokerID,
		Side:            domain.TradeSide(req.Side),
		MarketType:      domain.MarketType(req.MarketType),
		TransactionDate: req.TransactionDate,
		Notes:           req.Notes,
	})
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusCreated, response)
}

// writeSubmitError maps submission failures onto the error envelope the form
// renders inline. Validation failures keep the form populated client-side, so
// the message must be specific enough to act on.
func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	code := "INVALID_ORDER"
	message := err.Error()

	switch {
	case errors.Is(err, lots.ErrExceedsAvailable):
		status = http.StatusUnprocessableEntity
		code = "EXCEEDS_AVAILABLE"
	case brokerage.IsConnectivity(err):
		status = http.StatusBadGateway
		code = "BACKEND_UNREACHABLE"
		message = "Portfolio backend unreachable"
	default:
		if serverMsg, ok := brokerage.ServerMessage(err); ok {
			status = http.StatusBadGateway
			code = "BACKEND_REJECTED"
			// The backend's error payload may carry no message at all;
			// never hand the form a blank error.
			if serverMsg != "" {
				message = serverMsg
			}
		}
	}

	h.log.Warn().Err(err).Str("code", code).Msg("Order submission rejected")

	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
