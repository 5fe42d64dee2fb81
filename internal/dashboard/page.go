package dashboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"signalcharts/internal/charts"
)

//go:embed templates/dashboard.html
var pageTemplateText string

var pageTemplate = template.Must(template.New("dashboard").Parse(pageTemplateText))

// PanelView is a rendered panel: its chart instance, or the notice that
// replaced its container.
type PanelView struct {
	Panel
	ContainerID string
	Instance    *charts.Instance
	Notice      template.HTML
}

func newPanelView(p Panel, board *charts.Board) PanelView {
	view := PanelView{Panel: p, ContainerID: p.Surface + "-container"}
	s, err := board.Surface(p.Surface)
	if err != nil {
		view.Notice = charts.ErrorNotice
		return view
	}
	view.ContainerID = s.Container.ID
	if content, replaced := s.Container.Content(); replaced {
		view.Notice = content
		return view
	}
	view.Instance = s.Instance()
	if view.Instance == nil {
		view.Notice = charts.ErrorNotice
	}
	return view
}

// Failed reports whether the panel has no chart.
func (v PanelView) Failed() bool {
	return v.Instance == nil
}

// Body is the container content.
func (v PanelView) Body() template.HTML {
	if v.Notice != "" {
		return v.Notice
	}
	return v.Instance.HTML()
}

// Page is one rendered dashboard.
type Page struct {
	Title       string
	Engine      string
	ScriptURL   string
	GeneratedAt time.Time
	Summary     template.HTML
	Panels      []PanelView
}

// Failed returns the number of panels without a chart.
func (p *Page) Failed() int {
	n := 0
	for _, v := range p.Panels {
		if v.Failed() {
			n++
		}
	}
	return n
}

// HTML renders the complete page.
func (p *Page) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to execute dashboard template: %w", err)
	}
	return buf.Bytes(), nil
}
