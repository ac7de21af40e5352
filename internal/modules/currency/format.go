// Package currency provides display formatting and currency resolution for
// the dashboard. KRW amounts render without decimals, USD with two.
package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shkang/stockfolio/internal/domain"
)

// SymbolFor returns the display symbol for a currency code
func SymbolFor(currency domain.Currency) string {
	switch currency {
	case domain.CurrencyKRW:
		return "₩"
	case domain.CurrencyUSD:
		return "$"
	default:
		return string(currency) + " "
	}
}

// ForExchange resolves the trading currency from an exchange/market code.
// Unknown codes default to KRW, matching the dashboard's home market.
func ForExchange(exchangeCode string) domain.Currency {
	switch strings.ToUpper(exchangeCode) {
	case "KOSPI", "KOSDAQ", "KONEX", "KRX":
		return domain.CurrencyKRW
	case "NASDAQ", "NYSE", "AMEX", "NYSEARCA":
		return domain.CurrencyUSD
	default:
		return domain.CurrencyKRW
	}
}

// ForMarket resolves the settlement currency for a market type
func ForMarket(market domain.MarketType) domain.Currency {
	return market.Currency()
}

// Format renders an amount with its currency symbol and thousands separators.
// KRW is a zero-decimal currency; USD uses two decimals.
func Format(amount float64, currency domain.Currency) string {
	return SymbolFor(currency) + formatNumber(amount, decimalsFor(currency))
}

// FormatSigned is Format with an explicit leading sign, used for gain/loss
// fields where +/- carries meaning.
func FormatSigned(amount float64, currency domain.Currency) string {
	if amount > 0 {
		return "+" + Format(amount, currency)
	}
	if amount < 0 {
		return "-" + Format(-amount, currency)
	}
	return Format(0, currency)
}

// FormatPercent renders a percentage with two decimals and an explicit sign
func FormatPercent(value float64) string {
	if value > 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// decimalsFor returns the number of fraction digits for a currency
func decimalsFor(currency domain.Currency) int {
	if currency == domain.CurrencyKRW {
		return 0
	}
	return 2
}

// formatNumber renders a non-negative-or-negative value with comma grouping
func formatNumber(amount float64, decimals int) string {
	negative := math.Signbit(amount)
	formatted := strconv.FormatFloat(math.Abs(amount), 'f', decimals, 64)

	intPart := formatted
	fracPart := ""
	if idx := strings.IndexByte(formatted, '.'); idx >= 0 {
		intPart = formatted[:idx]
		fracPart = formatted[idx:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)

	return b.String()
}
