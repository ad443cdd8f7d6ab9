package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// MarketplaceCallsRate returns a timeseries panel showing upstream API call
// rates per marketplace.
func MarketplaceCallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Calls Rate").
		Description("Upstream marketplace API calls per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`pradar:marketplace_calls:rate5m`, "{{marketplace}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// MarketplaceErrorsRate returns a timeseries panel showing upstream API
// error rates per marketplace.
func MarketplaceErrorsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Errors Rate").
		Description("Failed upstream marketplace API calls per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`pradar:marketplace_errors:rate5m`, "{{marketplace}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DailyLimitHits returns a stat panel showing how many times a marketplace
// daily API limit was reached in the past 24 hours.
func DailyLimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Limit Hits (24h)").
		Description(fmt.Sprintf("Times a marketplace daily limit (%d calls) was reached in the last 24 hours", MarketplaceDailyLimit)).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum by (marketplace) (increase(pradar_marketplace_daily_limit_hits_total{job="promo-radar"}[24h]))`,
			"{{marketplace}}", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
