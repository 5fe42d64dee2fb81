package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chart metrics
var (
	ChartsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalcharts_charts_rendered_total",
			Help: "Total number of charts rendered",
		},
		[]string{"kind", "engine"},
	)

	ChartLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalcharts_chart_load_failures_total",
			Help: "Total number of charts replaced by the error notice",
		},
		[]string{"surface"},
	)
)

// Fetch and dashboard metrics
var (
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signalcharts_fetch_duration_seconds",
			Help:    "Time taken to fetch a tracker API payload",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	DashboardBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalcharts_dashboard_builds_total",
			Help: "Total number of dashboard builds",
		},
		[]string{"engine"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
