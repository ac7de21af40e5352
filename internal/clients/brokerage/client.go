// Package brokerage provides the HTTP client for the remote portfolio backend.
// The backend owns holdings, orders, realized profits, and broker fee
// schedules; this client only consumes its JSON API.
package brokerage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
)

// Client for the portfolio backend API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new backend client.
// baseURL is the API root, e.g. "http://localhost:8080/api".
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "brokerage").Logger(),
	}
}

// errorEnvelope is the backend's error payload shape
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetCommissionRate fetches the fee-rate profile for (broker, market, side).
func (c *Client) GetCommissionRate(brokerID string, market domain.MarketType, side domain.TradeSide) (*domain.FeeRateProfile, error) {
	endpoint := fmt.Sprintf("/commission-rates/%s/%s/%s",
		url.PathEscape(brokerID), url.PathEscape(string(market)), url.PathEscape(string(side)))

	var profile domain.FeeRateProfile
	if err := c.getJSON(endpoint, nil, &profile); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("broker", brokerID).
		Str("market", string(market)).
		Str("side", string(side)).
		Float64("fee_rate", profile.FeeRate).
		Float64("tax_rate", profile.TransactionTaxRate).
		Msg("Fetched commission rate")

	return &profile, nil
}

// CreateOrder submits a buy or sell order to the backend.
func (c *Client) CreateOrder(req domain.OrderRequest) (*domain.OrderResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.decodeError(resp)
	}

	var result domain.OrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	c.log.Info().
		Str("order_id", result.OrderID).
		Str("symbol", req.Symbol).
		Str("side", string(req.Side)).
		Float64("quantity", req.Quantity).
		Float64("price", req.Price).
		Msg("Order created")

	return &result, nil
}

// GetStockDetailByBrokers fetches the per-broker lot breakdown for a symbol.
// Quantities may have changed due to concurrent transactions, so callers must
// replace any previously held list with the result.
func (c *Client) GetStockDetailByBrokers(symbol string) ([]domain.StockLot, error) {
	var lots []domain.StockLot
	if err := c.getJSON("/stocks/"+url.PathEscape(symbol)+"/brokers", nil, &lots); err != nil {
		return nil, err
	}

	c.log.Debug().Str("symbol", symbol).Int("lots", len(lots)).Msg("Fetched lot breakdown")
	return lots, nil
}

// GetRealizedProfits fetches realized-profit records matching the filter.
func (c *Client) GetRealizedProfits(filter domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
	params := url.Values{}
	if filter.MarketType != "" {
		params.Set("market_type", string(filter.MarketType))
	}
	if filter.BrokerID != "" {
		params.Set("broker_id", filter.BrokerID)
	}
	if filter.Symbol != "" {
		params.Set("symbol", filter.Symbol)
	}
	if filter.StartDate != "" {
		params.Set("start_date", filter.StartDate)
	}
	if filter.EndDate != "" {
		params.Set("end_date", filter.EndDate)
	}

	var records []domain.RealizedProfit
	if err := c.getJSON("/realized-profits", params, &records); err != nil {
		return nil, err
	}

	c.log.Debug().Int("records", len(records)).Msg("Fetched realized profits")
	return records, nil
}

// GetPositions fetches the open positions for one market bucket.
func (c *Client) GetPositions(market domain.MarketType) ([]domain.Position, error) {
	params := url.Values{}
	params.Set("market_type", string(market))

	var positions []domain.Position
	if err := c.getJSON("/positions", params, &positions); err != nil {
		return nil, err
	}

	c.log.Debug().Str("market", string(market)).Int("positions", len(positions)).Msg("Fetched positions")
	return positions, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *Client) getJSON(endpoint string, params url.Values, out interface{}) error {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	resp, err := c.client.Get(fullURL)
	if err != nil {
		return &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}

	return nil
}

// decodeError converts a non-2xx response into an APIError, preserving the
// backend's message when the payload carries one.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(body) > 0 {
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}
	}

	return apiErr
}
