package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TokenRefreshRate returns a timeseries panel showing OAuth token exchanges
// per marketplace and outcome.
func TokenRefreshRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Token Refreshes").
		Description("OAuth token exchanges per second by marketplace and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (marketplace, outcome) (rate(pradar_token_refreshes_total{job="promo-radar"}[5m]))`,
			"{{marketplace}}/{{outcome}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// TokenRefreshFailures returns a timeseries panel showing failed OAuth token
// exchanges per marketplace.
func TokenRefreshFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Refresh Failures").
		Description("Failed OAuth token exchanges per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`pradar:token_refresh_failures:rate5m`, "{{marketplace}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.001, 0.01)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
