package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SearchLatency returns a timeseries panel showing p50 and p95 aggregated
// search durations.
func SearchLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Search Latency").
		Description("Aggregated search duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(pradar_search_duration_seconds_bucket{job="promo-radar"}[5m])) by (le))`,
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(pradar_search_duration_seconds_bucket{job="promo-radar"}[5m])) by (le))`,
			"p95",
			"B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// OffersPerPage returns a timeseries panel showing the average number of
// offers returned per page.
func OffersPerPage() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Offers / Page").
		Description("Average number of offers returned per page").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`rate(pradar_offers_returned_sum{job="promo-radar"}[5m]) / rate(pradar_offers_returned_count{job="promo-radar"}[5m])`,
			"avg offers", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FallbackRate returns a timeseries panel showing the share of searches
// answered from the static catalogue.
func FallbackRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fallback Rate %").
		Description("Searches served from the static catalogue as percentage of all searches").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`pradar:fallback_responses:rate5m / pradar:searches:rate5m * 100`,
			"fallback %", "A",
		)).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RateFetchFailures returns a timeseries panel showing failed exchange-rate
// fetches per minute.
func RateFetchFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Rate Fetch Failures / min").
		Description("Failed USD-BRL exchange-rate fetches per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`rate(pradar_rate_fetch_failures_total{job="promo-radar"}[5m]) * 60`,
			"failures/min", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
