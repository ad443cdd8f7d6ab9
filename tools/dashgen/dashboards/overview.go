// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/mfreitas/promo-radar/tools/dashgen/panels"
)

// BuildOverview constructs the Promo Radar Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Promo Radar Overview").
		Uid("pradar-overview").
		Tags([]string{"pradar", "promo-radar"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.FallbackStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Marketplaces.
	b.WithRow(dashboard.NewRowBuilder("Marketplaces").
		WithPanel(panels.MarketplaceCallsRate()).
		WithPanel(panels.MarketplaceErrorsRate()).
		WithPanel(panels.DailyLimitHits()))

	// Row 4: Tokens.
	b.WithRow(dashboard.NewRowBuilder("Tokens").
		WithPanel(panels.TokenRefreshRate()).
		WithPanel(panels.TokenRefreshFailures()))

	// Row 5: Aggregation.
	b.WithRow(dashboard.NewRowBuilder("Aggregation").
		WithPanel(panels.SearchLatency()).
		WithPanel(panels.OffersPerPage()).
		WithPanel(panels.FallbackRate()).
		WithPanel(panels.RateFetchFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
