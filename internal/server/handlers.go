package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"signalcharts/internal/charts"
	"signalcharts/internal/dashboard"
	"signalcharts/internal/export"
	"signalcharts/internal/logger"
	"signalcharts/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": http.StatusText(status),
	})
}

// HandleDashboard builds and serves the live dashboard
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	page, err := s.Builder.Build(r.Context(), s.echarts())
	if err != nil {
		s.log.Error("Dashboard build failed", err)
		http.Error(w, "Dashboard build failed", http.StatusServiceUnavailable)
		return
	}
	html, err := page.HTML()
	if err != nil {
		s.log.Error("Dashboard render failed", err)
		http.Error(w, "Dashboard render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(html)
}

// HandleChartPNG serves one panel as a PNG image (/charts/{surface}.png)
func (s *Server) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	surface, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok || surface == "" {
		http.NotFound(w, r)
		return
	}

	view, err := s.Builder.Panel(r.Context(), s.png(), surface)
	switch {
	case errors.Is(err, charts.ErrSurfaceNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.log.Warn("Chart image unavailable", logger.Fields{"surface": surface, "error": err.Error()})
		http.Error(w, "Chart could not be rendered", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", view.Instance.Output.MediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(view.Instance.Output.Data)))
	w.Write(view.Instance.Output.Data)
}

// HandleExport serves all panels as an XLSX workbook
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	engine, err := export.NewWorkbookEngine()
	if err != nil {
		s.log.Error("Workbook creation failed", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	defer engine.Close()

	if _, err := s.Builder.Build(r.Context(), engine); err != nil {
		s.log.Error("Export build failed", err)
		http.Error(w, "Export failed", http.StatusServiceUnavailable)
		return
	}

	filename := "signal-dashboard-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", charts.MediaXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := engine.WriteTo(w); err != nil {
		s.log.Error("Workbook write failed", err)
	}
}

// HandlePublish renders the dashboard and stores it
func (s *Server) HandlePublish(w http.ResponseWriter, r *http.Request) {
	// Reject immediately if another publish is running
	if !s.publishMu.TryLock() {
		s.log.Warn("Publish already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Publish already in progress",
			"message": "Another dashboard is being published. Please wait for it to complete.",
			"status":  "conflict",
		})
		return
	}
	defer s.publishMu.Unlock()

	result, err := dashboard.Publish(r.Context(), s.Builder, s.echarts(), s.Storage)
	if err != nil {
		s.log.Error("Publish failed", err)
		writeError(w, http.StatusInternalServerError, "Publish failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListDashboards lists published dashboards
func (s *Server) HandleListDashboards(w http.ResponseWriter, r *http.Request) {
	// Limit from query parameter (default 10, capped at 100)
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
		if limit > 100 {
			limit = 100
		}
	}

	paths, err := s.Storage.List(r.Context(), limit)
	if err != nil {
		s.log.Error("Failed to list dashboards", err)
		writeError(w, http.StatusInternalServerError, "Failed to list dashboards")
		return
	}
	if paths == nil {
		paths = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dashboards": paths,
		"count":      len(paths),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleStoredFile serves a published file from storage
func (s *Server) HandleStoredFile(w http.ResponseWriter, r *http.Request) {
	objectPath, err := storage.CleanPath(r.PathValue("path"))
	if err != nil {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Storage.Get(r.Context(), objectPath)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.log.Error("Failed to get file from storage", err, logger.Fields{"path": objectPath})
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", storage.ContentType(objectPath))
	w.Write(data)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"config":  "ok",
			"storage": s.Config.StorageMode,
		},
		"environment": s.Config.Environment,
		"panels":      len(s.Builder.Panels()),
	})
}
