package charts

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

var (
	// ErrSurfaceNotFound is returned when a surface identifier does not resolve.
	ErrSurfaceNotFound = errors.New("surface not found")
	// ErrInvalidInput is returned for payloads a chart cannot be built from.
	ErrInvalidInput = errors.New("invalid chart input")
	// ErrUnsupportedKind is returned by engines that cannot draw a chart kind.
	ErrUnsupportedKind = errors.New("unsupported chart kind")
)

// Kind is the chart type tag.
type Kind string

const (
	KindBar   Kind = "bar"
	KindLine  Kind = "line"
	KindRadar Kind = "radar"
	KindPie   Kind = "pie"
)

// Dataset is one series. Bar, line and radar series carry a single fill and
// border color; pie series carry one color per slice.
type Dataset struct {
	Label           string
	Data            []float64
	BackgroundColor []Color
	BorderColor     []Color
	BorderWidth     int
	Tension         float64
}

// Axis holds hard and suggested bounds of a scale. Nil means unset.
type Axis struct {
	Min          *float64
	Max          *float64
	SuggestedMin *float64
	SuggestedMax *float64
	AngleLines   bool
}

// Options are the chart-wide rendering options.
type Options struct {
	Responsive     bool
	Y              *Axis
	R              *Axis
	LegendPosition string
}

// Config is the library-neutral description of one chart.
type Config struct {
	Kind     Kind
	Labels   []string
	Datasets []Dataset
	Options  Options
}

// SeriesCount returns the number of datasets.
func (c Config) SeriesCount() int {
	return len(c.Datasets)
}

// Output is what an engine produced for one chart.
type Output struct {
	MediaType string
	Data      []byte
}

// Media types produced by the bundled engines.
const (
	MediaHTML = "text/html"
	MediaPNG  = "image/png"
	MediaXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Engine renders a chart configuration for a surface.
type Engine interface {
	Name() string
	Render(surfaceID string, cfg Config) (Output, error)
}

// Instance is a rendered chart bound to a surface.
type Instance struct {
	SurfaceID string
	Engine    string
	Config    Config
	Output    Output
}

// HTML returns markup that embeds the instance in a page.
func (i *Instance) HTML() template.HTML {
	if i == nil {
		return ""
	}
	switch {
	case strings.HasPrefix(i.Output.MediaType, MediaHTML):
		return template.HTML(i.Output.Data)
	case strings.HasPrefix(i.Output.MediaType, "image/"):
		return template.HTML(fmt.Sprintf(`<img id="%s" class="chart-image" alt="%s chart" src="data:%s;base64,%s">`,
			template.HTMLEscapeString(i.SurfaceID), i.Config.Kind, i.Output.MediaType,
			base64.StdEncoding.EncodeToString(i.Output.Data)))
	default:
		return ""
	}
}

func float(v float64) *float64 {
	return &v
}
