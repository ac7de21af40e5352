package realized

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/domain"
)

// State is the filter session's lifecycle state
type State string

const (
	StateIdle       State = "IDLE"
	StateDebouncing State = "DEBOUNCING"
	StateFetching   State = "FETCHING"
	StateSettled    State = "SETTLED"
	StateErrored    State = "ERRORED"
)

// Filter field names accepted by SetFilterField
const (
	FieldMarketType = "market_type"
	FieldBrokerID   = "broker_id"
	FieldSymbol     = "symbol"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
)

// profitFetcher is the slice of the backend client the pipeline needs
type profitFetcher interface {
	GetRealizedProfits(filter domain.RealizedProfitFilter) ([]domain.RealizedProfit, error)
}

// Controller drives the filter session. Filter edits within one debounce
// window coalesce into a single backend query using the last-written values.
// Each query carries a sequence number taken when it is issued; a response
// whose sequence no longer matches the controller's is discarded, so a slow
// response can never overwrite the result of a newer request. On a failed
// fetch the previous result set is kept on screen alongside the error.
type Controller struct {
	fetcher    profitFetcher
	rates      domain.RateSource
	debounce   time.Duration
	minLoading time.Duration
	log        zerolog.Logger

	mu       sync.Mutex
	state    State
	filter   domain.RealizedProfitFilter
	currency domain.Currency
	records  []domain.RealizedProfit
	errMsg   string
	seq      uint64
	timer    *time.Timer
	lastRate float64
}

// NewController creates a filter-pipeline controller. debounce is the quiet
// window after the last filter edit before a fetch is issued; minLoading is
// the minimum time spent in the fetching state so fast responses do not
// flicker the loading indicator.
func NewController(fetcher profitFetcher, rates domain.RateSource, debounce, minLoading time.Duration, log zerolog.Logger) *Controller {
	return &Controller{
		fetcher:    fetcher,
		rates:      rates,
		debounce:   debounce,
		minLoading: minLoading,
		log:        log.With().Str("service", "realized_pipeline").Logger(),
		state:      StateIdle,
		currency:   domain.CurrencyKRW,
	}
}

// SetFilterField updates one filter criterion and restarts the debounce
// window. An empty value clears the criterion.
func (c *Controller) SetFilterField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldMarketType:
		if value != "" && value != string(domain.MarketDomestic) && value != string(domain.MarketOverseas) {
			return fmt.Errorf("invalid market type %q", value)
		}
		c.filter.MarketType = domain.MarketType(value)
	case FieldBrokerID:
		c.filter.BrokerID = value
	case FieldSymbol:
		c.filter.Symbol = value
	case FieldStartDate:
		c.filter.StartDate = value
	case FieldEndDate:
		c.filter.EndDate = value
	default:
		return fmt.Errorf("unknown filter field %q", field)
	}

	c.restartDebounceLocked()
	return nil
}

// ClearFilter resets every criterion and restarts the debounce window
func (c *Controller) ClearFilter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = domain.RealizedProfitFilter{}
	c.restartDebounceLocked()
}

// SetCurrency changes the display currency for the total-profit statistic.
// It does not trigger a refetch; statistics are derived at read time.
func (c *Controller) SetCurrency(cur domain.Currency) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currency = cur
}

func (c *Controller) restartDebounceLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.state = StateDebouncing
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

// fire runs when the debounce window elapses with no further edits
func (c *Controller) fire() {
	c.mu.Lock()
	c.timer = nil
	c.seq++
	seq := c.seq
	filter := c.filter
	c.state = StateFetching
	c.mu.Unlock()

	start := time.Now()
	records, err := c.fetcher.GetRealizedProfits(filter)
	if remaining := c.minLoading - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// A newer request superseded this one while it was in flight
		c.log.Debug().Uint64("seq", seq).Uint64("current", c.seq).Msg("Discarding stale response")
		return
	}

	if err != nil {
		c.errMsg = err.Error()
		// Previous records stay visible alongside the error
		if c.state == StateFetching {
			c.state = StateErrored
		}
		c.log.Error().Err(err).Msg("Realized-profit fetch failed")
		return
	}

	c.records = records
	c.errMsg = ""
	if c.state == StateFetching {
		c.state = StateSettled
	}
}

// Snapshot is a point-in-time view of the pipeline for rendering
type Snapshot struct {
	State    State                       `json:"state"`
	Filter   domain.RealizedProfitFilter `json:"filter"`
	Currency domain.Currency             `json:"currency"`
	Records  []domain.RealizedProfit     `json:"records"`
	Stats    Stats                       `json:"stats"`
	Error    string                      `json:"error,omitempty"`
}

// Snapshot returns the current state, the records visible under the current
// filter, and statistics derived from them. The filter predicates are
// re-applied here even though the backend already filtered, so a criterion
// the backend ignored still takes effect.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	state := c.state
	filter := c.filter
	currency := c.currency
	errMsg := c.errMsg
	records := make([]domain.RealizedProfit, len(c.records))
	copy(records, c.records)
	c.mu.Unlock()

	visible := Apply(records, filter)
	rate := c.resolveRate()

	return Snapshot{
		State:    state,
		Filter:   filter,
		Currency: currency,
		Records:  visible,
		Stats:    ComputeStats(visible, currency, rate),
		Error:    errMsg,
	}
}

// resolveRate returns the current USD/KRW rate, falling back to the last
// successfully fetched one when the source fails.
func (c *Controller) resolveRate() float64 {
	rate, err := c.rates.GetRate("USD", "KRW")
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn().Err(err).Float64("last_rate", c.lastRate).Msg("Rate lookup failed, using last known rate")
		return c.lastRate
	}
	c.lastRate = rate
	return rate
}
