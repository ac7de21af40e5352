// Package realized implements the realized-profit filter pipeline: a
// debounced, multi-criteria filter over backend-sourced sell records, with
// aggregate statistics recomputed client-side over the filtered set.
package realized

import "github.com/shkang/stockfolio/internal/domain"

// Matches reports whether a record satisfies every set criterion of the
// filter. Empty criteria match everything. Dates are YYYY-MM-DD, so plain
// string comparison gives chronological order.
func Matches(r domain.RealizedProfit, f domain.RealizedProfitFilter) bool {
	if f.MarketType != "" && r.MarketType != f.MarketType {
		return false
	}
	if f.BrokerID != "" && r.Broker != f.BrokerID {
		return false
	}
	if f.Symbol != "" && r.Symbol != f.Symbol {
		return false
	}
	if f.StartDate != "" && r.SellDate < f.StartDate {
		return false
	}
	if f.EndDate != "" && r.SellDate > f.EndDate {
		return false
	}
	return true
}

// Apply returns the records matching the filter, preserving order
func Apply(records []domain.RealizedProfit, f domain.RealizedProfitFilter) []domain.RealizedProfit {
	matched := make([]domain.RealizedProfit, 0, len(records))
	for _, r := range records {
		if Matches(r, f) {
			matched = append(matched, r)
		}
	}
	return matched
}
