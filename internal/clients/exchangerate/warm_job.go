package exchangerate

import "github.com/rs/zerolog"

// WarmJob periodically refreshes the cached USD/KRW rate so portfolio and
// realized-profit reads rarely pay the fetch latency, and a stale value is
// available as a fallback when the rate API is down.
type WarmJob struct {
	client *Client
	log    zerolog.Logger
}

// NewWarmJob creates a new rate warm job
func NewWarmJob(client *Client, log zerolog.Logger) *WarmJob {
	return &WarmJob{
		client: client,
		log:    log.With().Str("job", "exchange_rate_warm").Logger(),
	}
}

// Name returns the job name
func (j *WarmJob) Name() string {
	return "exchange_rate_warm"
}

// Run fetches the USD/KRW rate, refreshing the cache as a side effect
func (j *WarmJob) Run() error {
	rate, err := j.client.GetUSDKRW()
	if err != nil {
		return err
	}

	j.log.Debug().Float64("rate", rate).Msg("Warmed USD/KRW rate")
	return nil
}
