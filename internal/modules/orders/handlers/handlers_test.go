package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shkang/stockfolio/internal/clients/brokerage"
	"github.com/shkang/stockfolio/internal/domain"
	"github.com/shkang/stockfolio/internal/modules/commission"
	"github.com/shkang/stockfolio/internal/modules/lots"
	"github.com/shkang/stockfolio/internal/services"
)

type fakeBrokerageClient struct {
	lots      []domain.StockLot
	createErr error
}

func (f *fakeBrokerageClient) GetCommissionRate(string, domain.MarketType, domain.TradeSide) (*domain.FeeRateProfile, error) {
	return &domain.FeeRateProfile{FeeRate: 0.00015, TransactionTaxRate: 0.0023}, nil
}

func (f *fakeBrokerageClient) CreateOrder(req domain.OrderRequest) (*domain.OrderResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.OrderResult{OrderID: "ord-1", Symbol: req.Symbol, Side: string(req.Side)}, nil
}

func (f *fakeBrokerageClient) GetStockDetailByBrokers(string) ([]domain.StockLot, error) {
	return f.lots, nil
}

func (f *fakeBrokerageClient) GetRealizedProfits(domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBrokerageClient) GetPositions(domain.MarketType) ([]domain.Position, error) {
	return nil, errors.New("not implemented")
}

func newTestRouter(client *fakeBrokerageClient) *chi.Mux {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	lotsService := lots.NewService(client, log)
	resolver := commission.NewResolver(client, nil, log)
	trades := services.NewTradeService(client, lotsService, resolver, log)
	handler := NewHandler(trades, log)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func submit(t *testing.T, router *chi.Mux, body SubmitOrderRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validRequest() SubmitOrderRequest {
	return SubmitOrderRequest{
		Symbol:     "005930",
		Quantity:   5,
		Price:      50_000,
		BrokerID:   "kiwoom",
		Side:       "SELL",
		MarketType: "DOMESTIC",
	}
}

func TestHandleSubmitOrder(t *testing.T) {
	healthy := func() *fakeBrokerageClient {
		return &fakeBrokerageClient{lots: []domain.StockLot{
			{BrokerID: "kiwoom", BrokerName: "Kiwoom Securities", NetQuantity: 10},
		}}
	}

	t.Run("valid sell is created", func(t *testing.T) {
		rec := submit(t, newTestRouter(healthy()), validRequest())
		require.Equal(t, http.StatusCreated, rec.Code)

		var response struct {
			Data services.SubmitResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "ord-1", response.Data.Order.OrderID)
		assert.Positive(t, response.Data.Quote.TotalFees)
	})

	t.Run("over-sell maps to EXCEEDS_AVAILABLE", func(t *testing.T) {
		req := validRequest()
		req.Quantity = 11
		rec := submit(t, newTestRouter(healthy()), req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var response struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "EXCEEDS_AVAILABLE", response.Error.Code)
	})

	t.Run("invalid form is a bad request", func(t *testing.T) {
		req := validRequest()
		req.Quantity = 0
		rec := submit(t, newTestRouter(healthy()), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("backend rejection carries its code", func(t *testing.T) {
		client := healthy()
		client.createErr = errors.New("settlement account frozen")
		rec := submit(t, newTestRouter(client), validRequest())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("backend rejection with a payload message surfaces it", func(t *testing.T) {
		client := healthy()
		client.createErr = &brokerage.APIError{StatusCode: 400, Message: "market closed"}
		rec := submit(t, newTestRouter(client), validRequest())

		require.Equal(t, http.StatusBadGateway, rec.Code)

		var response struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "BACKEND_REJECTED", response.Error.Code)
		assert.Equal(t, "market closed", response.Error.Message)
	})

	t.Run("backend rejection without a payload message is never blank", func(t *testing.T) {
		client := healthy()
		client.createErr = &brokerage.APIError{StatusCode: 500}
		rec := submit(t, newTestRouter(client), validRequest())

		require.Equal(t, http.StatusBadGateway, rec.Code)

		var response struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "BACKEND_REJECTED", response.Error.Code)
		assert.NotEmpty(t, response.Error.Message)
	})
}
