// Package handlers provides HTTP handlers for currency operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
	"github.com/shkang/stockfolio/internal/modules/currency"
)

// Handler handles currency HTTP requests
type Handler struct {
	rates domain.RateSource
	log   zerolog.Logger
}

// NewHandler creates a new currency handler
func NewHandler(rates domain.RateSource, log zerolog.Logger) *Handler {
	return &Handler{
		rates: rates,
		log:   log.With().Str("handler", "currency").Logger(),
	}
}

// ConvertRequest represents a request to convert currency
type ConvertRequest struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Amount       float64 `json:"amount"`
}

// HandleGetRate handles GET /api/currency/rate
// Returns the USD to KRW rate the portfolio aggregator uses.
func (h *Handler) HandleGetRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetRate("USD", "KRW")
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get exchange rate")
		http.Error(w, "Exchange rate not available", http.StatusServiceUnavailable)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"from_currency": "USD",
			"to_currency":   "KRW",
			"rate":          rate,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleConvert handles POST /api/currency/convert
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.FromCurrency == "" || req.ToCurrency == "" {
		http.Error(w, "from_currency and to_currency are required", http.StatusBadRequest)
		return
	}

	if req.Amount <= 0 {
		http.Error(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}

	rate, err := h.rates.GetRate(req.FromCurrency, req.ToCurrency)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get exchange rate")
		http.Error(w, "Exchange rate not available", http.StatusServiceUnavailable)
		return
	}

	convertedAmount := req.Amount * rate

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"from_currency": req.FromCurrency,
			"to_currency":   req.ToCurrency,
			"from_amount":   req.Amount,
			"to_amount":     convertedAmount,
			"rate":          rate,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetAvailableCurrencies handles GET /api/currency/available-currencies
func (h *Handler) HandleGetAvailableCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies := []map[string]interface{}{
		{"code": "KRW", "name": "Korean Won", "symbol": currency.SymbolFor(domain.CurrencyKRW)},
		{"code": "USD", "name": "US Dollar", "symbol": currency.SymbolFor(domain.CurrencyUSD)},
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"currencies": currencies,
			"count":      len(currencies),
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
