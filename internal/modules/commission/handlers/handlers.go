// Package handlers provides HTTP handlers for commission quoting.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
	"github.com/shkang/stockfolio/internal/modules/commission"
)

// Handler handles commission HTTP requests
type Handler struct {
	resolver *commission.Resolver
	log      zerolog.Logger
}

// NewHandler creates a new commission handler
func NewHandler(resolver *commission.Resolver, log zerolog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		log:      log.With().Str("handler", "commission").Logger(),
	}
}

// QuoteRequest represents a request to quote a trade's fees.
// BrokerID is optional; without it the market-type default rates apply.
type QuoteRequest struct {
	Shares        float64 `json:"shares"`
	PricePerShare float64 `json:"price_per_share"`
	Side          string  `json:"side"`
	MarketType    string  `json:"market_type"`
	BrokerID      string  `json:"broker_id,omitempty"`
}

// HandleQuote handles POST /api/commission/quote
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	side := domain.TradeSide(req.Side)
	if !side.Valid() {
		http.Error(w, "side must be BUY or SELL", http.StatusBadRequest)
		return
	}

	market := domain.MarketType(req.MarketType)
	if market != domain.MarketDomestic && market != domain.MarketOverseas {
		http.Error(w, "market_type must be DOMESTIC or OVERSEAS", http.StatusBadRequest)
		return
	}

	if req.Shares < 0 || req.PricePerShare < 0 {
		http.Error(w, "shares and price_per_share must not be negative", http.StatusBadRequest)
		return
	}

	resolved := h.resolver.Resolve(req.BrokerID, market, side)
	quote := commission.Compute(req.Shares, req.PricePerShare, side, resolved.Profile)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"quote":       quote,
			"rates":       resolved.Profile,
			"rate_source": resolved.Source,
			"currency":    market.Currency(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetRates handles GET /api/commission/rates/{broker}/{market}/{side}
func (h *Handler) HandleGetRates(w http.ResponseWriter, r *http.Request) {
	brokerID := chi.URLParam(r, "broker")
	market := domain.MarketType(chi.URLParam(r, "market"))
	side := domain.TradeSide(chi.URLParam(r, "side"))

	if !side.Valid() {
		http.Error(w, "side must be BUY or SELL", http.StatusBadRequest)
		return
	}
	if market != domain.MarketDomestic && market != domain.MarketOverseas {
		http.Error(w, "market must be DOMESTIC or OVERSEAS", http.StatusBadRequest)
		return
	}

	resolved := h.resolver.Resolve(brokerID, market, side)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"broker_id":   brokerID,
			"market_type": market,
			"side":        side,
			"rates":       resolved.Profile,
			"rate_source": resolved.Source,
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
