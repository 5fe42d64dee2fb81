package charts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"signalcharts/internal/models"
)

type stubGetter struct {
	body string
	err  error
	urls []string
}

func (s *stubGetter) GetJSON(_ context.Context, url string, out any) error {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.body), out)
}

func TestUpdateChartFromAPIDirect(t *testing.T) {
	g, _ := newTestGenerator("winrateChart")
	getter := &stubGetter{body: `{"labels":["BTC","ETH"],"values":[60,40]}`}
	u := NewUpdater(getter, g.Board(), nil)

	inst := UpdateChartFromAPI[models.ChartRequest](context.Background(), u, "http://tracker/api/x",
		g.WinrateChart, "winrateChart", nil)
	if inst == nil {
		t.Fatal("Expected an instance")
	}
	if len(inst.Config.Labels) != 2 || inst.Config.Datasets[0].Data[0] != 60 {
		t.Errorf("Unexpected config %+v", inst.Config)
	}
	if getter.urls[0] != "http://tracker/api/x" {
		t.Errorf("Unexpected url %v", getter.urls)
	}
	s, _ := g.Board().Surface("winrateChart")
	if _, replaced := s.Container.Content(); replaced {
		t.Error("Container should not be replaced on success")
	}
}

func TestUpdateChartFromAPITransform(t *testing.T) {
	g, _ := newTestGenerator("winrateChart")
	getter := &stubGetter{body: `{"BTCUSDT":{"trades":4,"wins":3,"winrate":75}}`}
	u := NewUpdater(getter, g.Board(), nil)

	transform := func(p models.PairPerformance) models.ChartRequest {
		req := models.ChartRequest{}
		for pair, stats := range p {
			req.Labels = append(req.Labels, pair)
			req.Values = append(req.Values, stats.Winrate)
		}
		return req
	}
	inst := UpdateChartFromAPI(context.Background(), u, "/api/pairs", g.WinrateChart, "winrateChart", transform)
	if inst == nil {
		t.Fatal("Expected an instance")
	}
	if inst.Config.Labels[0] != "BTCUSDT" || inst.Config.Datasets[0].Data[0] != 75 {
		t.Errorf("Unexpected config %+v", inst.Config)
	}
}

func TestUpdateChartFromAPIFailures(t *testing.T) {
	tests := []struct {
		name    string
		getter  *stubGetter
		surface string
	}{
		{
			name:    "fetch error",
			getter:  &stubGetter{err: errors.New("status 500")},
			surface: "comparisonChart",
		},
		{
			name:    "invalid json",
			getter:  &stubGetter{body: `{not json`},
			surface: "comparisonChart",
		},
		{
			name:    "null body",
			getter:  &stubGetter{body: `null`},
			surface: "comparisonChart",
		},
		{
			name:    "factory rejects payload",
			getter:  &stubGetter{body: `{"metrics":["Winrate"],"datasets":[]}`},
			surface: "comparisonChart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGenerator("comparisonChart")
			u := NewUpdater(tt.getter, g.Board(), nil)

			inst := UpdateChartFromAPI[models.ComparisonRequest](context.Background(), u, "/api/compare",
				g.ComparisonChart, tt.surface, nil)
			if inst != nil {
				t.Fatal("Expected no instance")
			}

			s, _ := g.Board().Surface(tt.surface)
			content, replaced := s.Container.Content()
			if !replaced || content != ErrorNotice {
				t.Errorf("Expected error notice, got %q", content)
			}
			if s.Instance() != nil {
				t.Error("Failed update should not bind an instance")
			}
		})
	}
}

func TestUpdateChartFromAPIMissingSurface(t *testing.T) {
	g, _ := newTestGenerator("winrateChart")
	u := NewUpdater(&stubGetter{err: errors.New("down")}, g.Board(), nil)

	inst := UpdateChartFromAPI[models.ChartRequest](context.Background(), u, "/api/x", g.WinrateChart, "ghost", nil)
	if inst != nil {
		t.Error("Expected no instance")
	}
	s, _ := g.Board().Surface("winrateChart")
	if _, replaced := s.Container.Content(); replaced {
		t.Error("Other containers must be left alone")
	}
}

func TestUpdateChartFromAPINullBeforeTransform(t *testing.T) {
	g, _ := newTestGenerator("winrateChart")
	u := NewUpdater(&stubGetter{body: ` null `}, g.Board(), nil)

	called := false
	transform := func(p models.PairPerformance) models.ChartRequest {
		called = true
		return models.ChartRequest{}
	}
	if inst := UpdateChartFromAPI(context.Background(), u, "/api/pairs", g.WinrateChart, "winrateChart", transform); inst != nil {
		t.Fatal("Expected no instance for a null body")
	}
	if called {
		t.Error("Transform must not run on a null body")
	}
	s, _ := g.Board().Surface("winrateChart")
	if content, replaced := s.Container.Content(); !replaced || content != ErrorNotice {
		t.Errorf("Expected error notice, got %q", content)
	}
}
