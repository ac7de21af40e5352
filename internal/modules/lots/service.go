// Package lots provides per-broker lot aggregation for a symbol and sell-side
// quantity validation against those lots.
package lots

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
)

// Service fetches per-broker lot breakdowns from the portfolio backend
type Service struct {
	client domain.BrokerageClient
	log    zerolog.Logger
}

// NewService creates a new lots service
func NewService(client domain.BrokerageClient, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log.With().Str("service", "lots").Logger(),
	}
}

// RefreshLots fetches the current per-broker lots for a symbol. The result
// fully replaces any previously fetched list, including brokers that no
// longer appear; callers must not merge it into stale state.
func (s *Service) RefreshLots(symbol string) ([]domain.StockLot, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	fetched, err := s.client.GetStockDetailByBrokers(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lots for %s: %w", symbol, err)
	}

	s.log.Debug().
		Str("symbol", symbol).
		Int("brokers", len(fetched)).
		Msg("Refreshed per-broker lots")

	return fetched, nil
}

// FindLot returns the lot held at the given broker, or an error when the
// broker holds no shares of the symbol.
func (s *Service) FindLot(symbol, brokerID string) (*domain.StockLot, error) {
	fetched, err := s.RefreshLots(symbol)
	if err != nil {
		return nil, err
	}

	for i := range fetched {
		if fetched[i].BrokerID == brokerID {
			return &fetched[i], nil
		}
	}

	return nil, fmt.Errorf("no lot for %s at broker %s", symbol, brokerID)
}

// ValidateSellAgainstBroker refreshes the lots for symbol and validates that
// quantity can be sold from the lot held at brokerID. Validation always runs
// against freshly fetched lots, never a cached list.
func (s *Service) ValidateSellAgainstBroker(symbol, brokerID string, quantity float64) error {
	lot, err := s.FindLot(symbol, brokerID)
	if err != nil {
		return err
	}
	return ValidateSell(*lot, quantity)
}
