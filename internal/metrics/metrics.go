// Package metrics defines Prometheus metrics for promo-radar.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pradar"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Aggregation metrics.
var (
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of aggregated offer searches in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	FallbackResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_responses_total",
		Help:      "Total number of searches answered from the static fallback catalogue.",
	})

	OffersReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "offers_returned",
		Help:      "Distribution of offer counts per returned page.",
		Buckets:   prometheus.LinearBuckets(0, 5, 11), // 0, 5, 10, ..., 50
	})
)

// Marketplace API metrics.
var (
	MarketplaceCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "marketplace_api_calls_total",
		Help:      "Total upstream marketplace API calls.",
	}, []string{"marketplace"})

	MarketplaceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "marketplace_api_errors_total",
		Help:      "Total failed upstream marketplace API calls.",
	}, []string{"marketplace"})

	DailyLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "marketplace_daily_limit_hits_total",
		Help:      "Total number of times a marketplace daily API limit was reached.",
	}, []string{"marketplace"})

	TokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total OAuth token exchanges, by marketplace and outcome.",
	}, []string{"marketplace", "outcome"})
)

// Currency metrics.
var (
	RateFetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_fetch_failures_total",
		Help:      "Total failed exchange-rate fetches (default rate served instead).",
	})
)
