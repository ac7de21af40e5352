package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Exchange rates move constantly but the dashboard tolerates an hour of
	// staleness; the scheduler re-warms the cache on the same cadence.
	TTLExchangeRate = time.Hour

	// Broker fee schedules change rarely (regulatory filings, promotions).
	TTLCommissionRate = 24 * time.Hour
)
