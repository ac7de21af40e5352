package lots

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shkang/stockfolio/internal/domain"
)

type fakeBrokerageClient struct {
	lots    map[string][]domain.StockLot
	lotsErr error
	calls   int
}

func (f *fakeBrokerageClient) GetCommissionRate(string, domain.MarketType, domain.TradeSide) (*domain.FeeRateProfile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBrokerageClient) CreateOrder(domain.OrderRequest) (*domain.OrderResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBrokerageClient) GetStockDetailByBrokers(symbol string) ([]domain.StockLot, error) {
	f.calls++
	if f.lotsErr != nil {
		return nil, f.lotsErr
	}
	return f.lots[symbol], nil
}

func (f *fakeBrokerageClient) GetRealizedProfits(domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBrokerageClient) GetPositions(domain.MarketType) ([]domain.Position, error) {
	return nil, errors.New("not implemented")
}

func newTestService(client *fakeBrokerageClient) *Service {
	return NewService(client, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRefreshLots(t *testing.T) {
	t.Run("returns the fetched list as-is", func(t *testing.T) {
		client := &fakeBrokerageClient{lots: map[string][]domain.StockLot{
			"005930": {
				{BrokerID: "kiwoom", NetQuantity: 10},
				{BrokerID: "kb", NetQuantity: 3},
			},
		}}
		service := newTestService(client)

		fetched, err := service.RefreshLots("005930")
		require.NoError(t, err)
		require.Len(t, fetched, 2)
		assert.Equal(t, "kiwoom", fetched[0].BrokerID)
	})

	t.Run("a refresh replaces brokers that disappeared", func(t *testing.T) {
		client := &fakeBrokerageClient{lots: map[string][]domain.StockLot{
			"005930": {
				{BrokerID: "kiwoom", NetQuantity: 10},
				{BrokerID: "kb", NetQuantity: 3},
			},
		}}
		service := newTestService(client)

		first, err := service.RefreshLots("005930")
		require.NoError(t, err)
		require.Len(t, first, 2)

		// Backend no longer reports the kb lot
		client.lots["005930"] = []domain.StockLot{{BrokerID: "kiwoom", NetQuantity: 10}}

		second, err := service.RefreshLots("005930")
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "kiwoom", second[0].BrokerID)
	})

	t.Run("requires a symbol", func(t *testing.T) {
		service := newTestService(&fakeBrokerageClient{})
		_, err := service.RefreshLots("")
		assert.Error(t, err)
	})

	t.Run("propagates backend errors", func(t *testing.T) {
		client := &fakeBrokerageClient{lotsErr: errors.New("backend down")}
		service := newTestService(client)
		_, err := service.RefreshLots("005930")
		assert.Error(t, err)
	})
}

func TestValidateSellAgainstBroker(t *testing.T) {
	client := &fakeBrokerageClient{lots: map[string][]domain.StockLot{
		"005930": {
			{BrokerID: "kiwoom", BrokerName: "Kiwoom Securities", NetQuantity: 10},
		},
	}}
	service := newTestService(client)

	t.Run("fetches fresh lots on every validation", func(t *testing.T) {
		before := client.calls
		require.NoError(t, service.ValidateSellAgainstBroker("005930", "kiwoom", 10))
		require.NoError(t, service.ValidateSellAgainstBroker("005930", "kiwoom", 5))
		assert.Equal(t, before+2, client.calls)
	})

	t.Run("rejects over-sell with the sentinel error", func(t *testing.T) {
		err := service.ValidateSellAgainstBroker("005930", "kiwoom", 11)
		assert.True(t, errors.Is(err, ErrExceedsAvailable))
	})

	t.Run("unknown broker is an error", func(t *testing.T) {
		err := service.ValidateSellAgainstBroker("005930", "nomura", 1)
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrExceedsAvailable))
	})
}
