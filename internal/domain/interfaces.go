package domain

// BrokerageClient defines the remote portfolio backend operations this core
// consumes. The backend owns the data; this service only computes and
// aggregates. Keeping the interface here breaks import cycles between the
// client and module packages.
type BrokerageClient interface {
	// Fee rates, keyed by (broker, market type, side)
	GetCommissionRate(brokerID string, market MarketType, side TradeSide) (*FeeRateProfile, error)

	// Order creation. Fails with a typed error carrying a human-readable message.
	CreateOrder(req OrderRequest) (*OrderResult, error)

	// Per-broker lot breakdown for a symbol. Callers must treat the result as
	// fully replacing any previous list.
	GetStockDetailByBrokers(symbol string) ([]StockLot, error)

	// Realized-profit records matching the filter
	GetRealizedProfits(filter RealizedProfitFilter) ([]RealizedProfit, error)

	// Open positions for one market bucket
	GetPositions(market MarketType) ([]Position, error)
}

// RateSource provides exchange rates between currency pairs
type RateSource interface {
	GetRate(fromCurrency, toCurrency string) (float64, error)
}
