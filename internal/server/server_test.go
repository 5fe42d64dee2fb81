package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signalcharts/internal/config"
	"signalcharts/internal/dashboard"
	"signalcharts/internal/fetchers"
	"signalcharts/internal/storage"
)

const (
	signalsJSON = `[
		{"id":1,"pair":"BTCUSDT","direction":"LONG","entry":100,"tp1":110,"tp2":null,"sl":95,"timestamp":"2024-03-07T10:00:00","outcome":"WIN","closed_at":111,"duration":45},
		{"id":2,"pair":"ETHUSDT","direction":"SHORT","entry":50,"tp1":45,"tp2":null,"sl":55,"timestamp":"2024-03-08T11:00:00","outcome":"LOSS","closed_at":56,"duration":30}
	]`
	pairsJSON   = `{"BTCUSDT":{"trades":6,"wins":4,"winrate":0.6667},"ETHUSDT":{"trades":3,"wins":1,"winrate":0.3333}}`
	winrateJSON = `{"winrate":55.5,"total_trades":9,"avg_duration_mins":37.5,"recent_win_streak":1,"weighted_winrate":58.2}`
)

func newTestServer(t *testing.T, failing ...string) *Server {
	t.Helper()
	failed := map[string]bool{}
	for _, p := range failing {
		failed[p] = true
	}
	tracker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failed[r.URL.Path] {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case fetchers.SignalsPath:
			w.Write([]byte(signalsJSON))
		case fetchers.PairsPath:
			w.Write([]byte(pairsJSON))
		case fetchers.WinratePath:
			w.Write([]byte(winrateJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(tracker.Close)

	cfg := &config.Config{
		Port:               "0",
		TrackerAPIURL:      tracker.URL,
		ChartHeight:        "300px",
		StorageMode:        config.StorageLocal,
		LocalDashboardsDir: t.TempDir(),
		Environment:        "test",
	}
	store, err := storage.New(t.Context(), cfg)
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}
	builder := dashboard.NewBuilder(fetchers.NewTracker(fetchers.NewClient(2*time.Second), cfg.TrackerAPIURL), dashboard.Options{
		Panels:      dashboard.DefaultPanels(dashboard.PanelSettings{Location: time.UTC}),
		WinrateDays: 30,
		ScriptURL:   "https://cdn.example.com/echarts.js",
	})
	s := NewServer(cfg, builder, store)
	t.Cleanup(func() { s.Close() })
	return s
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandleDashboard(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Unexpected content type %s", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"echarts.init", `id="winrateChart"`, "https://cdn.example.com/echarts.js", "Performance Report"} {
		if !strings.Contains(body, want) {
			t.Errorf("Dashboard is missing %q", want)
		}
	}
}

func TestHandleDashboardUnknownPath(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s.Handler(), http.MethodGet, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleChartPNG(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		failing []string
		status  int
	}{
		{"bar chart", "/charts/winrateChart.png", nil, http.StatusOK},
		{"pie chart", "/charts/outcomeChart.png", nil, http.StatusOK},
		{"unknown surface", "/charts/nope.png", nil, http.StatusNotFound},
		{"missing extension", "/charts/winrateChart", nil, http.StatusNotFound},
		{"tracker failure", "/charts/tradesChart.png", []string{fetchers.SignalsPath}, http.StatusBadGateway},
		{"radar has no png", "/charts/comparisonChart.png", nil, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.failing...)
			rec := do(t, s.Handler(), http.MethodGet, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, rec.Code)
			}
			if tt.status == http.StatusOK {
				if rec.Header().Get("Content-Type") != "image/png" {
					t.Errorf("Unexpected content type %s", rec.Header().Get("Content-Type"))
				}
				if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
					t.Error("Body is not a PNG image")
				}
			}
		})
	}
}

func TestHandleExport(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/export.xlsx")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Errorf("Unexpected disposition %s", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("Body is not a zip container")
	}
}

func TestPublishAndList(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/publish")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result dashboard.PublishResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("Invalid publish response: %v", err)
	}
	if !strings.HasSuffix(result.Path, "/index.html") || result.Panels != 6 {
		t.Errorf("Unexpected result %+v", result)
	}

	rec = do(t, h, http.MethodGet, "/dashboards")
	var list struct {
		Dashboards []string `json:"dashboards"`
		Count      int      `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("Invalid list response: %v", err)
	}
	if list.Count != 1 || list.Dashboards[0] != result.Path {
		t.Errorf("Unexpected list %+v", list)
	}

	rec = do(t, h, http.MethodGet, "/dashboards/"+result.Path)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("Expected stored page, got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Signal Tracker Dashboard") {
		t.Error("Stored page is not the dashboard")
	}

	if rec := do(t, h, http.MethodGet, "/dashboards/2000/01/01/missing/index.html"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing file, got %d", rec.Code)
	}
}

func TestPublishConflict(t *testing.T) {
	s := newTestServer(t)
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	rec := do(t, s.Handler(), http.MethodPost, "/publish")
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already in progress") {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestPublishMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s.Handler(), http.MethodGet, "/publish"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestHandleHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/health")
	var health map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("Invalid health response: %v", err)
	}
	if health["status"] != "healthy" || health["panels"] != float64(6) {
		t.Errorf("Unexpected health %v", health)
	}

	do(t, h, http.MethodGet, "/")
	rec = do(t, h, http.MethodGet, "/metrics")
	body, _ := io.ReadAll(rec.Body)
	if !bytes.Contains(body, []byte("signalcharts_dashboard_builds_total")) {
		t.Error("Metrics are missing dashboard builds")
	}
}
