package commission

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/clientdata"
	"github.com/shkang/stockfolio/internal/domain"
)

// RateSource values identify where a resolved profile came from
const (
	SourceBroker  = "broker"  // fetched from the backend for a specific broker
	SourceDefault = "default" // built-in market-type default
)

// ResolvedRates is a fee-rate profile together with its provenance, so the
// form can tell the user whether broker-specific rates are in effect.
type ResolvedRates struct {
	Profile domain.FeeRateProfile `json:"profile"`
	Source  string                `json:"source"`
}

// rateFetcher is the slice of the backend client the resolver needs
type rateFetcher interface {
	GetCommissionRate(brokerID string, market domain.MarketType, side domain.TradeSide) (*domain.FeeRateProfile, error)
}

// Resolver implements the two-tier fee-rate resolution contract: a
// successfully fetched broker profile always wins; the market-type default is
// a pure fallback and is never cached, so it can never shadow a later fetch.
type Resolver struct {
	fetcher   rateFetcher
	cacheRepo *clientdata.Repository
	log       zerolog.Logger
}

// NewResolver creates a fee-rate resolver.
// cacheRepo is optional - if nil, every resolution hits the backend.
func NewResolver(fetcher rateFetcher, cacheRepo *clientdata.Repository, log zerolog.Logger) *Resolver {
	return &Resolver{
		fetcher:   fetcher,
		cacheRepo: cacheRepo,
		log:       log.With().Str("service", "fee_rate_resolver").Logger(),
	}
}

// Resolve returns the fee-rate profile for (broker, market, side).
// An empty brokerID means no broker is selected yet and resolves to the
// default immediately, without a backend round-trip.
func (r *Resolver) Resolve(brokerID string, market domain.MarketType, side domain.TradeSide) ResolvedRates {
	if brokerID == "" {
		return ResolvedRates{Profile: DefaultProfile(market, side), Source: SourceDefault}
	}

	cacheKey := brokerID + ":" + string(market) + ":" + string(side)

	// Only successfully fetched profiles are ever cached, so a cache hit is
	// always broker-sourced.
	if r.cacheRepo != nil {
		data, err := r.cacheRepo.GetIfFresh("commission_rates", cacheKey)
		if err == nil && data != nil {
			var profile domain.FeeRateProfile
			if err := json.Unmarshal(data, &profile); err == nil {
				return ResolvedRates{Profile: profile, Source: SourceBroker}
			}
		}
	}

	profile, err := r.fetcher.GetCommissionRate(brokerID, market, side)
	if err != nil {
		r.log.Warn().
			Err(err).
			Str("broker", brokerID).
			Str("market", string(market)).
			Str("side", string(side)).
			Msg("Fee-rate fetch failed, substituting market default")
		return ResolvedRates{Profile: DefaultProfile(market, side), Source: SourceDefault}
	}

	if r.cacheRepo != nil {
		if err := r.cacheRepo.Store("commission_rates", cacheKey, profile, clientdata.TTLCommissionRate); err != nil {
			r.log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache fee-rate profile")
		}
	}

	return ResolvedRates{Profile: *profile, Source: SourceBroker}
}
