package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"signalcharts/internal/charts"
	"signalcharts/internal/config"
	"signalcharts/internal/dashboard"
	"signalcharts/internal/logger"
	"signalcharts/internal/metrics"
	"signalcharts/internal/storage"
)

// Server serves the live dashboard and its exports
type Server struct {
	Config  *config.Config
	Builder *dashboard.Builder
	Storage storage.Client

	log        *logger.Logger
	publishMu  sync.Mutex
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, builder *dashboard.Builder, store storage.Client) *Server {
	return &Server{
		Config:  cfg,
		Builder: builder,
		Storage: store,
		log:     logger.Component("server"),
	}
}

func (s *Server) echarts() charts.Engine {
	return charts.NewEChartsEngine(s.Config.ChartHeight)
}

func (s *Server) png() charts.Engine {
	return charts.NewPNGEngine(800, 400)
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /charts/{file}", s.HandleChartPNG)
	mux.HandleFunc("GET /export.xlsx", s.HandleExport)
	mux.HandleFunc("POST /publish", s.HandlePublish)
	mux.HandleFunc("GET /dashboards", s.HandleListDashboards)
	mux.HandleFunc("GET /dashboards/{path...}", s.HandleStoredFile)
	mux.HandleFunc("GET /{$}", s.HandleDashboard)

	return mux
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := s.SetupRoutes()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)
		s.log.Debug("Request served", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", logger.Fields{"port": s.Config.Port})
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
