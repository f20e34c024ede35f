// Package store persists report artifacts under period-keyed directories and
// maintains a small SQLite index of captured snapshots and run events.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer writes artifacts under <base>/<year>/<month:02d>/<name>.
type Writer struct {
	Base string
}

// Write persists content and returns the written path, creating directories
// as needed.
func (w Writer) Write(content []byte, year, month int, name string) (string, error) {
	dir := filepath.Join(w.Base, fmt.Sprintf("%d", year), fmt.Sprintf("%02d", month))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("store: write %s: %w", path, err)
	}
	return path, nil
}

// Dir returns the period directory without creating it.
func (w Writer) Dir(year, month int) string {
	return filepath.Join(w.Base, fmt.Sprintf("%d", year), fmt.Sprintf("%02d", month))
}
