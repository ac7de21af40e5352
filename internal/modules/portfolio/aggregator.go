// Package portfolio combines domestic (KRW) and overseas (USD) holdings into
// unified KRW totals using the USD to KRW exchange rate.
package portfolio

import "github.com/shkang/stockfolio/internal/domain"

// bucketSums holds the per-currency sums before conversion
type bucketSums struct {
	value     float64
	dayGain   float64
	totalGain float64
}

func sumBucket(positions []domain.Position) bucketSums {
	var sums bucketSums
	for _, p := range positions {
		sums.value += p.MarketValue
		sums.dayGain += p.DayGain
		sums.totalGain += p.TotalGain
	}
	return sums
}

// Aggregate computes unified portfolio totals from the two market buckets.
// Overseas sums are converted to KRW at exchangeRate before combining. The
// rate is taken as given and may be stale; this function never re-fetches it.
// Percent fields are 0 whenever the total value is not positive, so an empty
// portfolio never yields NaN or Inf.
func Aggregate(domestic, overseas []domain.Position, exchangeRate float64) domain.PortfolioTotals {
	dom := sumBucket(domestic)
	ovs := sumBucket(overseas)

	totals := domain.PortfolioTotals{
		DomesticValue: dom.value,
		OverseasValue: ovs.value * exchangeRate,
		ExchangeRate:  exchangeRate,
	}
	totals.TotalValue = totals.DomesticValue + totals.OverseasValue
	totals.DayGain = dom.dayGain + ovs.dayGain*exchangeRate
	totals.TotalGain = dom.totalGain + ovs.totalGain*exchangeRate

	if totals.TotalValue > 0 {
		totals.DayGainPercent = totals.DayGain / totals.TotalValue * 100
		totals.TotalGainPercent = totals.TotalGain / totals.TotalValue * 100
	}

	return totals
}
