package realized

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shkang/stockfolio/internal/domain"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []domain.RealizedProfitFilter
	respond func(f domain.RealizedProfitFilter) ([]domain.RealizedProfit, error)
}

func (f *fakeFetcher) GetRealizedProfits(filter domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filter)
	f.mu.Unlock()
	return f.respond(filter)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() domain.RealizedProfitFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type staticRateSource struct{ rate float64 }

func (s *staticRateSource) GetRate(_, _ string) (float64, error) { return s.rate, nil }

func newTestController(fetcher *fakeFetcher, debounce, minLoading time.Duration) *Controller {
	return NewController(
		fetcher,
		&staticRateSource{rate: 1_400},
		debounce,
		minLoading,
		zerolog.New(nil).Level(zerolog.Disabled),
	)
}

func settled(c *Controller) func() bool {
	return func() bool { return c.Snapshot().State == StateSettled }
}

func TestControllerStartsIdle(t *testing.T) {
	c := newTestController(&fakeFetcher{}, time.Millisecond, 0)
	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Records)
}

func TestDebounceCoalescesEdits(t *testing.T) {
	fetcher := &fakeFetcher{
		respond: func(f domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
			return []domain.RealizedProfit{{ID: "1", Symbol: f.Symbol}}, nil
		},
	}
	c := newTestController(fetcher, 40*time.Millisecond, 0)

	// Three edits inside one debounce window
	require.NoError(t, c.SetFilterField(FieldSymbol, "A"))
	require.NoError(t, c.SetFilterField(FieldSymbol, "B"))
	require.NoError(t, c.SetFilterField(FieldSymbol, "C"))

	assert.Equal(t, StateDebouncing, c.Snapshot().State)

	require.Eventually(t, settled(c), time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, "C", fetcher.lastCall().Symbol)
	snap := c.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "C", snap.Records[0].Symbol)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	gates := map[string]chan struct{}{
		"X": make(chan struct{}),
		"Y": make(chan struct{}),
	}
	fetcher := &fakeFetcher{
		respond: func(f domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
			<-gates[f.Symbol]
			return []domain.RealizedProfit{{ID: f.Symbol, Symbol: f.Symbol}}, nil
		},
	}
	c := newTestController(fetcher, 5*time.Millisecond, 0)

	require.NoError(t, c.SetFilterField(FieldSymbol, "X"))
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, time.Millisecond)

	// X is in flight; a new edit issues a second request
	require.NoError(t, c.SetFilterField(FieldSymbol, "Y"))
	require.Eventually(t, func() bool { return fetcher.callCount() == 2 }, time.Second, time.Millisecond)

	// Y's response lands first, then X's late response arrives
	close(gates["Y"])
	require.Eventually(t, settled(c), time.Second, time.Millisecond)
	close(gates["X"])

	// Give the stale response time to (not) apply
	assert.Never(t, func() bool {
		snap := c.Snapshot()
		return len(snap.Records) == 1 && snap.Records[0].ID == "X"
	}, 100*time.Millisecond, 10*time.Millisecond)

	snap := c.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Y", snap.Records[0].ID)
}

func TestErrorKeepsPreviousRecords(t *testing.T) {
	var failing bool
	var mu sync.Mutex
	fetcher := &fakeFetcher{}
	fetcher.respond = func(f domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
		mu.Lock()
		defer mu.Unlock()
		if failing {
			return nil, errors.New("backend down")
		}
		return []domain.RealizedProfit{
			{ID: "1", Symbol: "005930", Broker: "kiwoom", RealizedProfit: 100, Currency: domain.CurrencyKRW},
		}, nil
	}
	c := newTestController(fetcher, 5*time.Millisecond, 0)

	require.NoError(t, c.SetFilterField(FieldBrokerID, "kiwoom"))
	require.Eventually(t, settled(c), time.Second, time.Millisecond)
	require.Len(t, c.Snapshot().Records, 1)

	mu.Lock()
	failing = true
	mu.Unlock()

	require.NoError(t, c.SetFilterField(FieldStartDate, ""))
	require.Eventually(t, func() bool { return c.Snapshot().State == StateErrored }, time.Second, time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, StateErrored, snap.State)
	assert.NotEmpty(t, snap.Error)
	// Stale-while-revalidate: the last good data stays visible
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "1", snap.Records[0].ID)

	// A later successful fetch clears the error
	mu.Lock()
	failing = false
	mu.Unlock()
	require.NoError(t, c.SetFilterField(FieldStartDate, ""))
	require.Eventually(t, settled(c), time.Second, time.Millisecond)
	assert.Empty(t, c.Snapshot().Error)
}

func TestMinimumLoadingDuration(t *testing.T) {
	fetcher := &fakeFetcher{
		respond: func(domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
			return nil, nil
		},
	}
	c := newTestController(fetcher, 5*time.Millisecond, 80*time.Millisecond)

	start := time.Now()
	require.NoError(t, c.SetFilterField(FieldSymbol, "005930"))
	require.Eventually(t, settled(c), time.Second, time.Millisecond)

	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestSnapshotReappliesFilterClientSide(t *testing.T) {
	// Backend ignores the symbol criterion and returns extra rows
	fetcher := &fakeFetcher{
		respond: func(domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
			return []domain.RealizedProfit{
				{ID: "1", Symbol: "005930", RealizedProfit: 100, Currency: domain.CurrencyKRW},
				{ID: "2", Symbol: "AAPL", RealizedProfit: 50, Currency: domain.CurrencyUSD},
			}, nil
		},
	}
	c := newTestController(fetcher, 5*time.Millisecond, 0)

	require.NoError(t, c.SetFilterField(FieldSymbol, "005930"))
	require.Eventually(t, settled(c), time.Second, time.Millisecond)

	snap := c.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "005930", snap.Records[0].Symbol)
	assert.Equal(t, 1, snap.Stats.Count)
	assert.InDelta(t, 100, snap.Stats.TotalProfit, 0.001)
}

func TestSetCurrencyAffectsStatsOnly(t *testing.T) {
	fetcher := &fakeFetcher{
		respond: func(domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
			return []domain.RealizedProfit{
				{ID: "1", Symbol: "AAPL", RealizedProfit: 10, Currency: domain.CurrencyUSD},
			}, nil
		},
	}
	c := newTestController(fetcher, 5*time.Millisecond, 0)

	require.NoError(t, c.SetFilterField(FieldSymbol, "AAPL"))
	require.Eventually(t, settled(c), time.Second, time.Millisecond)
	require.Equal(t, 1, fetcher.callCount())

	c.SetCurrency(domain.CurrencyUSD)
	snap := c.Snapshot()
	assert.InDelta(t, 10, snap.Stats.TotalProfit, 0.001)

	c.SetCurrency(domain.CurrencyKRW)
	snap = c.Snapshot()
	assert.InDelta(t, 14_000, snap.Stats.TotalProfit, 0.001)

	// No refetch happened for either switch
	assert.Equal(t, 1, fetcher.callCount())
}

func TestSetFilterFieldValidation(t *testing.T) {
	fetcher := &fakeFetcher{
		respond: func(domain.RealizedProfitFilter) ([]domain.RealizedProfit, error) {
			return nil, nil
		},
	}
	c := newTestController(fetcher, time.Millisecond, 0)

	assert.Error(t, c.SetFilterField("nonsense", "x"))
	assert.Error(t, c.SetFilterField(FieldMarketType, "LUNAR"))
	assert.NoError(t, c.SetFilterField(FieldMarketType, "DOMESTIC"))
	assert.NoError(t, c.SetFilterField(FieldMarketType, ""))
}
