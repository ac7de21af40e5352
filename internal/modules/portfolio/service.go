package portfolio

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
)

// Service fetches the two market buckets and the exchange rate, then derives
// unified totals. Totals are recomputed on every call, never stored.
type Service struct {
	client domain.BrokerageClient
	rates  domain.RateSource
	log    zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(client domain.BrokerageClient, rates domain.RateSource, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		rates:  rates,
		log:    log.With().Str("service", "portfolio").Logger(),
	}
}

// Overview is the full portfolio view: both buckets plus derived totals
type Overview struct {
	Totals   domain.PortfolioTotals `json:"totals"`
	Domestic []domain.Position      `json:"domestic"`
	Overseas []domain.Position      `json:"overseas"`
}

// GetOverview fetches both market buckets and the USD/KRW rate and aggregates
// them. A rate-source failure is an error; positions are always fetched fresh.
func (s *Service) GetOverview() (*Overview, error) {
	domestic, err := s.client.GetPositions(domain.MarketDomestic)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch domestic positions: %w", err)
	}

	overseas, err := s.client.GetPositions(domain.MarketOverseas)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overseas positions: %w", err)
	}

	rate, err := s.rates.GetRate("USD", "KRW")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch USD/KRW rate: %w", err)
	}

	totals := Aggregate(domestic, overseas, rate)

	s.log.Debug().
		Float64("total_value", totals.TotalValue).
		Float64("exchange_rate", rate).
		Int("domestic_positions", len(domestic)).
		Int("overseas_positions", len(overseas)).
		Msg("Computed portfolio totals")

	return &Overview{Totals: totals, Domestic: domestic, Overseas: overseas}, nil
}
