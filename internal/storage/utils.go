package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// DashboardFolder generates a consistent folder path for a dashboard
// Format: YYYY/MM/DD/Dashboard-YYYY-MM-DD-HH-MM-SS-mmm
func DashboardFolder(ts time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/Dashboard-%04d-%02d-%02d-%02d-%02d-%02d-%03d",
		ts.Year(), ts.Month(), ts.Day(),
		ts.Year(), ts.Month(), ts.Day(),
		ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond()/int(time.Millisecond))
}

// ObjectPath returns the path of name inside the dashboard folder for ts.
func ObjectPath(name string, ts time.Time) string {
	return DashboardFolder(ts) + "/" + name
}

// CleanPath normalizes an object path and rejects paths that escape the root.
func CleanPath(p string) (string, error) {
	slashed := strings.ReplaceAll(p, "\\", "/")
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid object path %q", p)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+slashed), "/")
	if cleaned == "" {
		return "", fmt.Errorf("invalid object path %q", p)
	}
	return cleaned, nil
}

// newestFirst sorts dashboard paths newest first and applies limit.
func newestFirst(paths []string, limit int) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}
	return paths
}

// ContentType determines the MIME content type based on file extension
func ContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(filename, ".json"):
		return "application/json"
	case strings.HasSuffix(filename, ".css"):
		return "text/css"
	case strings.HasSuffix(filename, ".md"):
		return "text/markdown"
	case strings.HasSuffix(filename, ".png"):
		return "image/png"
	case strings.HasSuffix(filename, ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
