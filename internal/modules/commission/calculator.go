// Package commission computes commission, transaction tax, and net settlement
// amounts for buy and sell orders. The calculator is pure and cheap enough to
// run on every keystroke of an order form; fee-rate resolution (broker-specific
// vs market defaults) lives in the Resolver.
package commission

import (
	"github.com/shopspring/decimal"
	"github.com/shkang/stockfolio/internal/domain"
)

// Default fee-rate table keyed by market type. Fixed constants; brokers with
// negotiated rates are resolved through the Resolver instead.
//
// Domestic markets carry a securities transaction tax collected on sale only.
// Overseas (US) markets have no equivalent sale tax in this table.
const (
	defaultDomesticFeeRate = 0.00015 // 0.015%
	defaultDomesticTaxRate = 0.0023  // 0.23%, applied on SELL
	defaultOverseasFeeRate = 0.0025  // 0.25%
	defaultOverseasTaxRate = 0.0
)

// DefaultProfile returns the built-in fee-rate profile for a market type and
// side. The domestic transaction tax applies only to sales; the buy-side rate
// is zero by market convention.
func DefaultProfile(market domain.MarketType, side domain.TradeSide) domain.FeeRateProfile {
	if market == domain.MarketOverseas {
		return domain.FeeRateProfile{
			FeeRate:            defaultOverseasFeeRate,
			TransactionTaxRate: defaultOverseasTaxRate,
		}
	}

	taxRate := 0.0
	if side == domain.SideSell {
		taxRate = defaultDomesticTaxRate
	}

	return domain.FeeRateProfile{
		FeeRate:            defaultDomesticFeeRate,
		TransactionTaxRate: taxRate,
	}
}

// Compute calculates the fee breakdown and net settlement amount for a trade.
// The supplied rates are honored as given; whether tax applies to a side is a
// property of the profile, not of this function.
//
// Non-positive shares or price yield the all-zero quote.
func Compute(shares, pricePerShare float64, side domain.TradeSide, rates domain.FeeRateProfile) domain.CommissionQuote {
	if shares <= 0 || pricePerShare <= 0 {
		return domain.CommissionQuote{}
	}

	gross := shares * pricePerShare
	commission := round2(gross * rates.FeeRate)
	transactionTax := round2(gross * rates.TransactionTaxRate)
	totalFees := commission + transactionTax

	// BUY settles higher than gross (fees leave the account on top of the
	// purchase); SELL settles lower (fees come out of the proceeds).
	netAmount := gross + totalFees
	if side == domain.SideSell {
		netAmount = gross - totalFees
	}

	return domain.CommissionQuote{
		Commission:     commission,
		TransactionTax: transactionTax,
		TotalFees:      totalFees,
		NetAmount:      netAmount,
	}
}

// ComputeWithDefaults calculates a quote using the built-in default rate table
// for the market type. Used when no broker-specific profile is available yet.
func ComputeWithDefaults(shares, pricePerShare float64, side domain.TradeSide, market domain.MarketType) domain.CommissionQuote {
	return Compute(shares, pricePerShare, side, DefaultProfile(market, side))
}

// round2 rounds to two decimal places using half-up decimal rounding, so fee
// amounts match what brokers actually charge instead of drifting on float
// arithmetic.
func round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}
