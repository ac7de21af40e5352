package brokerage

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	return NewClient(serverURL, logger)
}

func TestGetCommissionRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commission-rates/kb/DOMESTIC/SELL", r.URL.Path)
		_, _ = w.Write([]byte(`{"fee_rate":0.00015,"transaction_tax_rate":0.0023}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	profile, err := client.GetCommissionRate("kb", domain.MarketDomestic, domain.SideSell)
	require.NoError(t, err)
	assert.Equal(t, 0.00015, profile.FeeRate)
	assert.Equal(t, 0.0023, profile.TransactionTaxRate)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		_, _ = w.Write([]byte(`{"order_id":"ord-1","symbol":"005930","side":"BUY","quantity":10,"price":50000}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.CreateOrder(domain.OrderRequest{
		Symbol:     "005930",
		Quantity:   10,
		Price:      50000,
		Side:       domain.SideBuy,
		MarketType: domain.MarketDomestic,
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", result.OrderID)
	assert.Equal(t, 10.0, result.Quantity)
}

func TestCreateOrder_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"message":"insufficient holdings"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreateOrder(domain.OrderRequest{Symbol: "005930", Quantity: 10, Price: 50000, Side: domain.SideSell})
	require.Error(t, err)

	msg, ok := ServerMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "insufficient holdings", msg)
	assert.False(t, IsConnectivity(err))
}

func TestGetStockDetailByBrokers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocks/AAPL/brokers", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"broker_id":"kb","broker_name":"KB Securities","net_quantity":12,"average_cost_price":180.5,"current_price":195.2,"market_value":2342.4,"latest_transaction_date":"2025-11-03"},
			{"broker_id":"nh","broker_name":"NH Investment","net_quantity":3,"average_cost_price":170.0,"current_price":195.2,"market_value":585.6,"latest_transaction_date":"2025-06-21"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	lots, err := client.GetStockDetailByBrokers("AAPL")
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, "kb", lots[0].BrokerID)
	assert.Equal(t, 12.0, lots[0].NetQuantity)
	assert.Equal(t, "2025-06-21", lots[1].LatestTransactionDate)
}

func TestGetRealizedProfits_FilterParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "DOMESTIC", query.Get("market_type"))
		assert.Equal(t, "kb", query.Get("broker_id"))
		assert.Equal(t, "2025-01-01", query.Get("start_date"))
		assert.Empty(t, query.Get("symbol"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	records, err := client.GetRealizedProfits(domain.RealizedProfitFilter{
		MarketType: domain.MarketDomestic,
		BrokerID:   "kb",
		StartDate:  "2025-01-01",
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetPositions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERSEAS", r.URL.Query().Get("market_type"))
		_, _ = w.Write([]byte(`[{"symbol":"AAPL","currency":"USD","quantity":15,"market_value":2928.0,"day_gain":10,"total_gain":250}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	positions, err := client.GetPositions(domain.MarketOverseas)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, domain.CurrencyUSD, positions[0].Currency)
}

func TestConnectivityError(t *testing.T) {
	// Point at a closed server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetPositions(domain.MarketDomestic)
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))

	_, ok := ServerMessage(err)
	assert.False(t, ok)
}
