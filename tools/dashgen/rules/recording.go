package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pradar-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pradar-recording",
					Rules: []Rule{
						{
							Record: "pradar:http_requests:rate5m",
							Expr:   `sum(rate(pradar_http_requests_total[5m]))`,
						},
						{
							Record: "pradar:http_errors:rate5m",
							Expr:   `sum(rate(pradar_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "pradar:searches:rate5m",
							Expr:   `rate(pradar_search_duration_seconds_count[5m])`,
						},
						{
							Record: "pradar:fallback_responses:rate5m",
							Expr:   `rate(pradar_fallback_responses_total[5m])`,
						},
						{
							Record: "pradar:marketplace_calls:rate5m",
							Expr:   `sum by (marketplace) (rate(pradar_marketplace_api_calls_total[5m]))`,
						},
						{
							Record: "pradar:marketplace_errors:rate5m",
							Expr:   `sum by (marketplace) (rate(pradar_marketplace_api_errors_total[5m]))`,
						},
						{
							Record: "pradar:token_refresh_failures:rate5m",
							Expr:   `sum by (marketplace) (rate(pradar_token_refreshes_total{outcome="failure"}[5m]))`,
						},
					},
				},
			},
		},
	}
}
