package realized

import "github.com/shkang/stockfolio/internal/domain"

// Stats are the aggregate statistics over a filtered result set
type Stats struct {
	TotalProfit          float64         `json:"total_profit"`
	Currency             domain.Currency `json:"currency"`
	WinRate              float64         `json:"win_rate"`
	AverageReturnPercent float64         `json:"average_return_percent"`
	Count                int             `json:"count"`
}

// ComputeStats derives statistics from the given records. Profits are summed
// in the display currency; records in the other currency are converted at
// usdKRWRate (USD to KRW). A non-positive rate means no usable rate is known,
// and mismatched-currency records then contribute zero to the total while
// still counting toward win rate and average return, both of which are
// currency-independent. An empty set yields all-zero stats.
func ComputeStats(records []domain.RealizedProfit, display domain.Currency, usdKRWRate float64) Stats {
	stats := Stats{Currency: display, Count: len(records)}
	if len(records) == 0 {
		return stats
	}

	wins := 0
	var returnSum float64
	for _, r := range records {
		stats.TotalProfit += convertProfit(r.RealizedProfit, r.Currency, display, usdKRWRate)
		if r.RealizedProfit > 0 {
			wins++
		}
		returnSum += r.RealizedProfitPercent
	}

	stats.WinRate = float64(wins) / float64(len(records))
	stats.AverageReturnPercent = returnSum / float64(len(records))
	return stats
}

func convertProfit(amount float64, from, to domain.Currency, usdKRWRate float64) float64 {
	money := domain.NewMoney(amount, from)
	if from == to {
		return money.Amount
	}
	if usdKRWRate <= 0 {
		return 0
	}
	switch {
	case from == domain.CurrencyUSD && to == domain.CurrencyKRW:
		return money.ConvertTo(to, usdKRWRate).Amount
	case from == domain.CurrencyKRW && to == domain.CurrencyUSD:
		return money.ConvertTo(to, 1/usdKRWRate).Amount
	default:
		return 0
	}
}
