package dashboard

import (
	"context"
	"time"

	"signalcharts/internal/charts"
	"signalcharts/internal/fetchers"
	"signalcharts/internal/transforms"
)

// Surface identifiers of the default panels.
const (
	WinrateSurface      = "winrateChart"
	TradesSurface       = "tradesChart"
	ComparisonSurface   = "comparisonChart"
	OutcomeSurface      = "outcomeChart"
	DirectionSurface    = "directionChart"
	PairTradesSurface   = "pairTradesChart"
	defaultComparePairs = 3
)

// Panel is one chart slot of the dashboard backed by one tracker endpoint.
type Panel struct {
	Surface string
	Title   string
	Path    string
	Kind    charts.Kind
	// Load fetches url and renders the chart on the panel's surface.
	Load func(ctx context.Context, u *charts.Updater, g *charts.Generator, url string) *charts.Instance
}

// PanelSettings tune the default panels.
type PanelSettings struct {
	Location        *time.Location
	ComparisonPairs int
}

// DefaultPanels returns the dashboard charts in page order.
func DefaultPanels(s PanelSettings) []Panel {
	if s.Location == nil {
		s.Location = time.Local
	}
	if s.ComparisonPairs <= 0 {
		s.ComparisonPairs = defaultComparePairs
	}
	daily := transforms.DailyTradeCounts(s.Location)
	comparison := transforms.PairComparison(s.ComparisonPairs)

	return []Panel{
		{
			Surface: WinrateSurface,
			Title:   "Winrate by Pair",
			Path:    fetchers.PairsPath,
			Kind:    charts.KindBar,
			Load: func(ctx context.Context, u *charts.Updater, g *charts.Generator, url string) *charts.Instance {
				return charts.UpdateChartFromAPI(ctx, u, url, g.WinrateChart, WinrateSurface, transforms.PairWinrates)
			},
		},
		{
			Surface: TradesSurface,
			Title:   "Daily Trades",
			Path:    fetchers.SignalsPath,
			Kind:    charts.KindLine,
			Load: func(ctx context.Context, u *charts.Updater, g *charts.Generator, url string) *charts.Instance {
				return charts.UpdateChartFromAPI(ctx, u, url, g.TradeCountChart, TradesSurface, daily)
			},
		},
		{
			Surface: ComparisonSurface,
			Title:   "Pair Comparison",
			Path:    fetchers.PairsPath,
			Kind:    charts.KindRadar,
			Load: func(ctx context.Context, u *charts.Updater, g *charts.Generator, url string) *charts.Instance {
				return charts.UpdateChartFromAPI(ctx, u, url, g.ComparisonChart, ComparisonSurface, comparison)
			},
		},
		{
			Surface: OutcomeSurface,
			Title:   "Signal Outcomes",
			Path:    fetchers.SignalsPath,
			Kind:    charts.KindPie,
			Load: func(ctx context.Context, u *charts.Updater, g *charts.Generator, url string) *charts.Instance {
				return charts.UpdateChartFromAPI(ctx, u, url, g.DistributionChart, OutcomeSurface, transforms.OutcomeDistribution)
			},
		},
		{
			Surface: DirectionSurface,
			Title:   "Signal Directions",
			Path:    fetchers.SignalsPath,
			Kind:    charts.KindPie,
			Load: func(ctx context.Context, u *charts.Updater, g *charts.Generator, url string) *charts.Instance {
				return charts.UpdateChartFromAPI(ctx, u, url, g.DistributionChart, DirectionSurface, transforms.DirectionDistribution)
			},
		},
		{
			Surface: PairTradesSurface,
			Title:   "Trades by Pair",
			Path:    fetchers.PairsPath,
			Kind:    charts.KindLine,
			Load: func(ctx context.Context, u *charts.Updater, g *charts.Generator, url string) *charts.Instance {
				return charts.UpdateChartFromAPI(ctx, u, url, g.TradeCountChart, PairTradesSurface, transforms.PairTradeCounts)
			},
		},
	}
}
