package mocks

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"
)

//go:embed data/*.json
var sampleData embed.FS

var samples = mustSub(sampleData, "data")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("mocks: invalid sample directory %q: %v", dir, err))
	}
	return sub
}

// MockService answers tracker API requests from JSON files named after the
// endpoint (/api/pairs reads pairs.json). Query strings are ignored.
type MockService struct {
	fsys fs.FS
}

// NewMockService creates a mock service reading from mocksDir, or from the
// bundled sample data when mocksDir is empty.
func NewMockService(mocksDir string) *MockService {
	if mocksDir == "" {
		return &MockService{fsys: samples}
	}
	return &MockService{fsys: os.DirFS(mocksDir)}
}

// FileFor returns the mock file name serving rawURL.
func FileFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %s: %w", rawURL, err)
	}
	name := path.Base(strings.TrimRight(u.Path, "/"))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("no mock file for %s", rawURL)
	}
	return name + ".json", nil
}

// GetJSON loads the mock file for rawURL and decodes it into out.
func (m *MockService) GetJSON(ctx context.Context, rawURL string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filename, err := FileFor(rawURL)
	if err != nil {
		return err
	}

	content, err := fs.ReadFile(m.fsys, filename)
	if err != nil {
		return fmt.Errorf("failed to read mock file %s: %w", filename, err)
	}
	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to unmarshal mock file %s: %w", filename, err)
	}
	return nil
}
