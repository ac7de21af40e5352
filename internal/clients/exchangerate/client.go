// Package exchangerate provides currency exchange rate fetching and caching functionality.
package exchangerate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shkang/stockfolio/internal/clientdata"
)

// Client for exchangerate-api.com
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new exchangerate-api.com client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   "https://api.exchangerate-api.com/v4/latest",
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "exchangerate-api").Logger(),
		cacheRepo: cacheRepo,
	}
}

// cachedExchangeRate is the structure stored in the cache
type cachedExchangeRate struct {
	Rate float64 `json:"rate"`
}

// GetUSDKRW returns the USD to KRW rate used by the portfolio aggregator.
func (c *Client) GetUSDKRW() (float64, error) {
	return c.GetRate("USD", "KRW")
}

// GetRate fetches an exchange rate, cache first. If the API call fails for
// any reason, an expired cached rate is returned instead when one exists
// (stale data > no data).
func (c *Client) GetRate(fromCurrency, toCurrency string) (float64, error) {
	if fromCurrency == toCurrency {
		return 1.0, nil
	}

	cacheKey := fromCurrency + ":" + toCurrency

	if rate, ok := c.getFromCache(cacheKey, true); ok {
		c.log.Debug().
			Str("pair", cacheKey).
			Float64("rate", rate).
			Msg("Cache hit")
		return rate, nil
	}

	rate, err := c.fetchRate(fromCurrency, toCurrency)
	if err != nil {
		// API failed - fall back to a stale cached rate if we have one
		if staleRate, ok := c.getFromCache(cacheKey, false); ok {
			c.log.Warn().
				Err(err).
				Str("pair", cacheKey).
				Float64("rate", staleRate).
				Msg("Rate fetch failed, using stale cached rate")
			return staleRate, nil
		}
		return 0, err
	}

	if c.cacheRepo != nil {
		cached := cachedExchangeRate{Rate: rate}
		if err := c.cacheRepo.Store("exchangerate", cacheKey, cached, clientdata.TTLExchangeRate); err != nil {
			c.log.Warn().Err(err).Str("pair", cacheKey).Msg("Failed to cache exchange rate")
		}
	}

	c.log.Info().
		Str("pair", cacheKey).
		Float64("rate", rate).
		Msg("Fetched rate")

	return rate, nil
}

// fetchRate performs the actual API call
func (c *Client) fetchRate(fromCurrency, toCurrency string) (float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, fromCurrency)
	c.log.Debug().Str("url", url).Msg("Fetching rates")

	resp, err := c.client.Get(url)
	if err != nil {
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var result struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	rate, exists := result.Rates[toCurrency]
	if !exists {
		return 0, fmt.Errorf("rate not found for %s->%s", fromCurrency, toCurrency)
	}

	return rate, nil
}

// getFromCache retrieves a cached rate. When freshOnly is false, expired
// entries are returned too - the fallback when API calls fail.
func (c *Client) getFromCache(cacheKey string, freshOnly bool) (float64, bool) {
	if c.cacheRepo == nil {
		return 0, false
	}

	var (
		data json.RawMessage
		err  error
	)
	if freshOnly {
		data, err = c.cacheRepo.GetIfFresh("exchangerate", cacheKey)
	} else {
		data, err = c.cacheRepo.Get("exchangerate", cacheKey)
	}
	if err != nil || data == nil {
		return 0, false
	}

	var cached cachedExchangeRate
	if err := json.Unmarshal(data, &cached); err != nil {
		return 0, false
	}

	return cached.Rate, true
}
