// Package domain provides core domain models and types.
package domain

// Currency represents a currency code
type Currency string

const (
	CurrencyKRW Currency = "KRW"
	CurrencyUSD Currency = "USD"
)

// MarketType classifies a market as domestic (KRW) or overseas (USD).
// It drives default fee/tax rates and currency formatting.
type MarketType string

const (
	MarketDomestic MarketType = "DOMESTIC"
	MarketOverseas MarketType = "OVERSEAS"
)

// Currency returns the settlement currency for the market type
func (m MarketType) Currency() Currency {
	if m == MarketOverseas {
		return CurrencyUSD
	}
	return CurrencyKRW
}

// TradeSide represents the direction of a transaction
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Valid reports whether the side is one of the known values
func (s TradeSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Money represents a monetary value with currency
type Money struct {
	Currency Currency `json:"currency"`
	Amount   float64  `json:"amount"`
}

// NewMoney creates a new Money value
func NewMoney(amount float64, currency Currency) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// ConvertTo converts the amount to another currency at the given rate
func (m Money) ConvertTo(to Currency, rate float64) Money {
	if m.Currency == to {
		return m
	}
	return Money{Currency: to, Amount: m.Amount * rate}
}

// FeeRateProfile holds the commission and transaction tax rates applied to a
// trade, keyed upstream by (broker, market type, side).
type FeeRateProfile struct {
	FeeRate            float64 `json:"fee_rate"`
	TransactionTaxRate float64 `json:"transaction_tax_rate"`
}

// CommissionQuote is the fee breakdown and settlement amount for a trade
type CommissionQuote struct {
	Commission     float64 `json:"commission"`
	TransactionTax float64 `json:"transaction_tax"`
	TotalFees      float64 `json:"total_fees"`
	NetAmount      float64 `json:"net_amount"`
}

// StockLot is a per-broker aggregation of all transactions for one symbol
type StockLot struct {
	BrokerID              string  `json:"broker_id"`
	BrokerName            string  `json:"broker_name"`
	NetQuantity           float64 `json:"net_quantity"`
	AverageCostPrice      float64 `json:"average_cost_price"`
	CurrentPrice          float64 `json:"current_price"`
	MarketValue           float64 `json:"market_value"`
	LatestTransactionDate string  `json:"latest_transaction_date"` // YYYY-MM-DD
}

// Position represents an open holding as returned by the backend
type Position struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	Currency     Currency `json:"currency"`
	Quantity     float64  `json:"quantity"`
	AverageCost  float64  `json:"average_cost"`
	CurrentPrice float64  `json:"current_price"`
	MarketValue  float64  `json:"market_value"`
	DayGain      float64  `json:"day_gain"`
	TotalGain    float64  `json:"total_gain"`
}

// PortfolioTotals is derived on every request from the current domestic and
// overseas positions and the USD to KRW exchange rate. All amounts are KRW.
type PortfolioTotals struct {
	TotalValue       float64 `json:"total_value"`
	DomesticValue    float64 `json:"domestic_value"`
	OverseasValue    float64 `json:"overseas_value"`
	DayGain          float64 `json:"day_gain"`
	DayGainPercent   float64 `json:"day_gain_percent"`
	TotalGain        float64 `json:"total_gain"`
	TotalGainPercent float64 `json:"total_gain_percent"`
	ExchangeRate     float64 `json:"exchange_rate"`
}

// RealizedProfit is a crystallized sell transaction, read-only from the backend
type RealizedProfit struct {
	ID                    string     `json:"id"`
	Symbol                string     `json:"symbol"`
	CompanyName           string     `json:"company_name"`
	Broker                string     `json:"broker"`
	MarketType            MarketType `json:"market_type"`
	SellDate              string     `json:"sell_date"` // YYYY-MM-DD
	Shares                float64    `json:"shares"`
	SellPrice             float64    `json:"sell_price"`
	AvgCost               float64    `json:"avg_cost"`
	RealizedProfit        float64    `json:"realized_profit"`
	RealizedProfitPercent float64    `json:"realized_profit_percent"`
	Currency              Currency   `json:"currency"`
}

// RealizedProfitFilter narrows a realized-profit query.
// Zero values mean "no restriction" for that field.
type RealizedProfitFilter struct {
	MarketType MarketType `json:"market_type,omitempty"`
	BrokerID   string     `json:"broker_id,omitempty"`
	Symbol     string     `json:"symbol,omitempty"`
	StartDate  string     `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    string     `json:"end_date,omitempty"`   // YYYY-MM-DD
}

// OrderRequest is the payload submitted to the backend order-creation endpoint
type OrderRequest struct {
	ClientOrderID   string     `json:"client_order_id"`
	Symbol          string     `json:"symbol"`
	Quantity        float64    `json:"quantity"`
	Price           float64    `json:"price"`
	BrokerID        string     `json:"broker_id"`
	Side            TradeSide  `json:"transaction_type"`
	MarketType      MarketType `json:"market_type"`
	TransactionDate string     `json:"transaction_date"` // YYYY-MM-DD
	Notes           string     `json:"notes,omitempty"`
	Commission      float64    `json:"commission,omitempty"`
}

// OrderResult is the backend's confirmation of a created order
type OrderResult struct {
	OrderID  string  `json:"order_id"`
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}
