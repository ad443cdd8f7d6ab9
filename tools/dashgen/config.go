package main

import "errors"

// KnownMetrics is the set of metric names exported by promo-radar plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"pradar_http_request_duration_seconds": true,
	"pradar_http_requests_total":           true,

	// Health metrics.
	"pradar_healthz_up": true,
	"pradar_readyz_up":  true,

	// Aggregation metrics.
	"pradar_search_duration_seconds":  true,
	"pradar_fallback_responses_total": true,
	"pradar_offers_returned":          true,

	// Marketplace API metrics.
	"pradar_marketplace_api_calls_total":        true,
	"pradar_marketplace_api_errors_total":       true,
	"pradar_marketplace_daily_limit_hits_total": true,
	"pradar_token_refreshes_total":              true,

	// Currency metrics.
	"pradar_rate_fetch_failures_total": true,

	// Recording rules.
	"pradar:http_requests:rate5m":          true,
	"pradar:http_errors:rate5m":            true,
	"pradar:searches:rate5m":               true,
	"pradar:fallback_responses:rate5m":     true,
	"pradar:marketplace_calls:rate5m":      true,
	"pradar:marketplace_errors:rate5m":     true,
	"pradar:token_refresh_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
