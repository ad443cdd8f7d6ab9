package validate

import (
	"testing"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/promo-radar/tools/dashgen/rules"
)

var testKnown = map[string]bool{
	"pradar_healthz_up":              true,
	"pradar_search_duration_seconds": true,
}

func buildDash(t *testing.T, expr string) dashboard.Dashboard {
	t.Helper()

	b := dashboard.NewDashboardBuilder("test").
		WithPanel(stat.NewPanelBuilder().
			Title("Test").
			WithTarget(prometheus.NewDataqueryBuilder().Expr(expr).RefId("A")))

	dash, err := b.Build()
	require.NoError(t, err)
	return dash
}

func TestDashboard_KnownMetric(t *testing.T) {
	t.Parallel()

	res := Dashboard(buildDash(t, `pradar_healthz_up`), testKnown)
	assert.True(t, res.Ok())
	assert.Empty(t, res.Warnings)
}

func TestDashboard_HistogramSuffixes(t *testing.T) {
	t.Parallel()

	expr := `histogram_quantile(0.95, sum(rate(pradar_search_duration_seconds_bucket[5m])) by (le))`
	res := Dashboard(buildDash(t, expr), testKnown)
	assert.True(t, res.Ok())
	assert.Empty(t, res.Warnings)
}

func TestDashboard_UnknownMetricWarns(t *testing.T) {
	t.Parallel()

	res := Dashboard(buildDash(t, `pradar_nonexistent_total`), testKnown)
	assert.True(t, res.Ok())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "pradar_nonexistent_total")
}

func TestDashboard_InvalidPromQL(t *testing.T) {
	t.Parallel()

	res := Dashboard(buildDash(t, `sum(rate(`), testKnown)
	assert.False(t, res.Ok())
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "invalid PromQL")
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{
		Spec: rules.PrometheusRuleSpec{
			Groups: []rules.RuleGroup{
				{
					Name: "test",
					Rules: []rules.Rule{
						{Record: "ok", Expr: `rate(pradar_healthz_up[5m])`},
						{Alert: "Broken", Expr: `rate(`},
					},
				},
			},
		},
	}

	res := Rules(cr, testKnown)
	assert.False(t, res.Ok())
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Broken")
}
