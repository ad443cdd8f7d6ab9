// Package middleware provides Echo middleware for the promo-radar API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mfreitas/promo-radar/internal/metrics"
)

// probeGauges maps probe paths to their up/down gauge. Probe and scrape
// paths stay out of the request histogram and counter so that scrape
// frequency does not dominate the series.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware recording per-request duration and status.
// /healthz and /readyz update their gauges instead, /metrics is ignored
// entirely.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if gauge, ok := probeGauges[path]; ok {
				err := next(c)
				if status := c.Response().Status; status >= 200 && status < 300 {
					gauge.Set(1)
				} else {
					gauge.Set(0)
				}
				return err
			}
			if path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			labels := []string{
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}
