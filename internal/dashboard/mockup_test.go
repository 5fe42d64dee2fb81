package dashboard

import (
	"context"
	"testing"

	"signalcharts/internal/charts"
	"signalcharts/internal/fetchers"
	"signalcharts/internal/mocks"
)

func TestBuildFromSampleData(t *testing.T) {
	b := newTestBuilder(fetchers.NewTracker(mocks.NewMockService(""), "http://tracker.invalid"))

	page, err := b.Build(context.Background(), charts.NewEChartsEngine(""))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if page.Failed() != 0 {
		for _, v := range page.Panels {
			if v.Notice != "" {
				t.Logf("%s: %s", v.Surface, v.Notice)
			}
		}
		t.Fatalf("Expected sample data to render every panel, %d failed", page.Failed())
	}
	if page.Summary == "" {
		t.Error("Expected a summary from sample winrate stats")
	}
	if n := len(page.Panels[0].Instance.Config.Labels); n != 4 {
		t.Errorf("Expected 4 pairs in the winrate chart, got %d", n)
	}
}
