// Package services provides business services shared across multiple modules.
//
// TradeService orchestrates order submission across the lots, commission, and
// brokerage components: it validates sell quantities against freshly fetched
// lots, resolves fee rates, attaches the computed commission, and submits the
// order to the portfolio backend.
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shkang/stockfolio/internal/domain"
	"github.com/shkang/stockfolio/internal/modules/commission"
)

// sellValidator is the slice of the lots service the trade flow needs
type sellValidator interface {
	ValidateSellAgainstBroker(symbol, brokerID string, quantity float64) error
}

// rateResolver resolves fee rates for a (broker, market, side) triple
type rateResolver interface {
	Resolve(brokerID string, market domain.MarketType, side domain.TradeSide) commission.ResolvedRates
}

// TradeService submits buy and sell orders. Validation errors never reach
// the backend; only orders that pass local checks are sent.
type TradeService struct {
	client   domain.BrokerageClient
	lots     sellValidator
	resolver rateResolver
	log      zerolog.Logger
}

// NewTradeService creates a new trade service
func NewTradeService(client domain.BrokerageClient, lotsService sellValidator, resolver rateResolver, log zerolog.Logger) *TradeService {
	return &TradeService{
		client:   client,
		lots:     lotsService,
		resolver: resolver,
		log:      log.With().Str("service", "trade").Logger(),
	}
}

// SubmitOrderInput is the user-supplied order form
type SubmitOrderInput struct {
	Symbol          string
	Quantity        float64
	Price           float64
	BrokerID        string
	Side            domain.TradeSide
	MarketType      domain.MarketType
	TransactionDate string // YYYY-MM-DD, today when empty
	Notes           string
}

// SubmitResult is the outcome of a submitted order, including the fee
// breakdown that was attached to it.
type SubmitResult struct {
	Order *domain.OrderResult    `json:"order"`
	Quote domain.CommissionQuote `json:"quote"`
}

// SubmitOrder validates and submits an order. Sell quantities are checked
// against a fresh per-broker lot fetch before anything is sent; the backend
// re-enforces the same check, this one just fails fast. The commission quote
// uses the broker's fetched rates when available and market defaults
// otherwise.
func (s *TradeService) SubmitOrder(input SubmitOrderInput) (*SubmitResult, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	if input.Side == domain.SideSell {
		if err := s.lots.ValidateSellAgainstBroker(input.Symbol, input.BrokerID, input.Quantity); err != nil {
			return nil, err
		}
	}

	resolved := s.resolver.Resolve(input.BrokerID, input.MarketType, input.Side)
	quote := commission.Compute(input.Quantity, input.Price, input.Side, resolved.Profile)

	date := input.TransactionDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	req := domain.OrderRequest{
		ClientOrderID:   uuid.New().String(),
		Symbol:          input.Symbol,
		Quantity:        input.Quantity,
		Price:           input.Price,
		BrokerID:        input.BrokerID,
		Side:            input.Side,
		MarketType:      input.MarketType,
		TransactionDate: date,
		Notes:           input.Notes,
		Commission:      quote.Commission,
	}

	result, err := s.client.CreateOrder(req)
	if err != nil {
		return nil, fmt.Errorf("order submission failed: %w", err)
	}

	s.log.Info().
		Str("client_order_id", req.ClientOrderID).
		Str("symbol", input.Symbol).
		Str("side", string(input.Side)).
		Float64("quantity", input.Quantity).
		Float64("net_amount", quote.NetAmount).
		Str("rate_source", resolved.Source).
		Msg("Order submitted")

	return &SubmitResult{Order: result, Quote: quote}, nil
}

func (s *TradeService) validateInput(input SubmitOrderInput) error {
	if input.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if input.BrokerID == "" {
		return fmt.Errorf("broker_id is required")
	}
	if !input.Side.Valid() {
		return fmt.Errorf("transaction type must be BUY or SELL, got %q", input.Side)
	}
	if input.MarketType != domain.MarketDomestic && input.MarketType != domain.MarketOverseas {
		return fmt.Errorf("market type must be DOMESTIC or OVERSEAS, got %q", input.MarketType)
	}
	if input.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %v", input.Quantity)
	}
	if input.Price <= 0 {
		return fmt.Errorf("price must be positive, got %v", input.Price)
	}
	return nil
}
