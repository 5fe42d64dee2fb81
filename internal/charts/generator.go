package charts

import (
	"fmt"

	"signalcharts/internal/metrics"
	"signalcharts/internal/models"
)

// Series labels of the single-series charts.
const (
	WinrateLabel    = "Winrate (%)"
	TradeCountLabel = "Number of Trades"
)

// Generator builds the dashboard charts and renders them with an injected
// engine onto the surfaces of a board.
type Generator struct {
	engine Engine
	board  *Board
}

// NewGenerator creates a chart generator.
func NewGenerator(engine Engine, board *Board) *Generator {
	return &Generator{engine: engine, board: board}
}

// Board returns the board the generator draws on.
func (g *Generator) Board() *Board {
	return g.board
}

// WinrateChart renders a bar chart of winrates with the y axis fixed to [0, 100].
func (g *Generator) WinrateChart(surfaceID string, data models.ChartRequest) (*Instance, error) {
	cfg := Config{
		Kind:   KindBar,
		Labels: cloneStrings(data.Labels),
		Datasets: []Dataset{{
			Label:           WinrateLabel,
			Data:            cloneFloats(data.Values),
			BackgroundColor: []Color{WinrateColors.Fill},
			BorderColor:     []Color{WinrateColors.Border},
			BorderWidth:     1,
		}},
		Options: Options{
			Responsive: true,
			Y:          &Axis{Min: float(0), Max: float(100)},
		},
	}
	return g.render(surfaceID, cfg)
}

// TradeCountChart renders a line chart of trade counts.
func (g *Generator) TradeCountChart(surfaceID string, data models.ChartRequest) (*Instance, error) {
	cfg := Config{
		Kind:   KindLine,
		Labels: cloneStrings(data.Labels),
		Datasets: []Dataset{{
			Label:           TradeCountLabel,
			Data:            cloneFloats(data.Values),
			BackgroundColor: []Color{TradeCountColors.Fill},
			BorderColor:     []Color{TradeCountColors.Border},
			BorderWidth:     2,
			Tension:         0.2,
		}},
		Options: Options{Responsive: true},
	}
	return g.render(surfaceID, cfg)
}

// ComparisonChart renders a radar chart with one series per dataset. The
// radial axis suggests [0, 100]; larger values still expand it.
func (g *Generator) ComparisonChart(surfaceID string, data models.ComparisonRequest) (*Instance, error) {
	if len(data.Datasets) == 0 {
		return nil, fmt.Errorf("%w: comparison chart needs at least one dataset", ErrInvalidInput)
	}

	datasets := make([]Dataset, 0, len(data.Datasets))
	for i, ds := range data.Datasets {
		colors := ComparisonPalette.At(i)
		datasets = append(datasets, Dataset{
			Label:           ds.Label,
			Data:            cloneFloats(ds.Values),
			BackgroundColor: []Color{colors.Fill},
			BorderColor:     []Color{colors.Border},
			BorderWidth:     2,
		})
	}

	cfg := Config{
		Kind:     KindRadar,
		Labels:   cloneStrings(data.Metrics),
		Datasets: datasets,
		Options: Options{
			Responsive: true,
			R:          &Axis{SuggestedMin: float(0), SuggestedMax: float(100), AngleLines: true},
		},
	}
	return g.render(surfaceID, cfg)
}

// DistributionChart renders a pie chart with one slice per label. Slice
// colors cycle through DistributionPalette.
func (g *Generator) DistributionChart(surfaceID string, data models.ChartRequest) (*Instance, error) {
	fills := make([]Color, len(data.Values))
	borders := make([]Color, len(data.Values))
	for i := range data.Values {
		colors := DistributionPalette.At(i)
		fills[i] = colors.Fill
		borders[i] = colors.Border
	}

	cfg := Config{
		Kind:   KindPie,
		Labels: cloneStrings(data.Labels),
		Datasets: []Dataset{{
			Data:            cloneFloats(data.Values),
			BackgroundColor: fills,
			BorderColor:     borders,
			BorderWidth:     1,
		}},
		Options: Options{Responsive: true, LegendPosition: "right"},
	}
	return g.render(surfaceID, cfg)
}

func (g *Generator) render(surfaceID string, cfg Config) (*Instance, error) {
	surface, err := g.board.Surface(surfaceID)
	if err != nil {
		return nil, err
	}
	out, err := g.engine.Render(surfaceID, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart on %q: %w", cfg.Kind, surfaceID, err)
	}
	metrics.ChartsRendered.WithLabelValues(string(cfg.Kind), g.engine.Name()).Inc()

	inst := &Instance{SurfaceID: surfaceID, Engine: g.engine.Name(), Config: cfg, Output: out}
	surface.Bind(inst)
	return inst, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	return append(make([]float64, 0, len(in)), in...)
}
