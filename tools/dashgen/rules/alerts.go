package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// promo-radar operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pradar-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pradar-alerts",
					Rules: []Rule{
						{
							Alert: "PradarDown",
							Expr:  `absent(up{job="promo-radar"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Promo Radar is down",
								"description": "The promo-radar job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "PradarReadinessDown",
							Expr:  `pradar_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Promo Radar readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "PradarHighErrorRate",
							Expr:  `pradar:http_errors:rate5m / pradar:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Promo Radar",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "PradarServingFallback",
							Expr:  `pradar:fallback_responses:rate5m > 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Promo Radar is serving the static catalogue",
								"description": "All marketplace upstreams have been failing for more than 10 minutes and searches are answered from sample data.",
							},
						},
						{
							Alert: "PradarMarketplaceErrors",
							Expr:  `pradar:marketplace_errors:rate5m > 0.1`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Marketplace API errors are elevated",
								"description": "A marketplace upstream has been failing at more than 0.1 calls/s for the last 5 minutes.",
							},
						},
						{
							Alert: "PradarTokenRefreshFailures",
							Expr:  `pradar:token_refresh_failures:rate5m > 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "OAuth token refreshes are failing",
								"description": "A marketplace OAuth token exchange has been failing for more than 5 minutes. Searches may degrade to anonymous or fallback results.",
							},
						},
						{
							Alert: "PradarDailyLimitReached",
							Expr:  `increase(pradar_marketplace_daily_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "A marketplace daily API limit has been reached",
								"description": "A marketplace daily call quota has been exhausted. That upstream is excluded until reset.",
							},
						},
						{
							Alert: "PradarRateFetchFailures",
							Expr:  `increase(pradar_rate_fetch_failures_total[15m]) > 3`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Exchange-rate fetches are failing",
								"description": "USD-BRL exchange-rate refreshes keep failing. Prices convert with the cached or default rate.",
							},
						},
					},
				},
			},
		},
	}
}
