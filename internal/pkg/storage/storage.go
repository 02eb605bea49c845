// Package storage persists uploaded binary artifacts (signing selfies, ID
// photos, drawn signatures) and returns durable public URLs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultBaseDir    = "./uploads"
	defaultStaticBase = "/static/uploads"
)

type Store struct {
	baseDir    string // absolute path to the uploads dir
	staticBase string // URL prefix the files are served under
}

func New(baseDir, staticBase string) *Store {
	if baseDir == "" {
		baseDir = defaultBaseDir
	}
	if staticBase == "" {
		staticBase = defaultStaticBase
	}
	return &Store{baseDir: baseDir, staticBase: staticBase}
}

// Save writes data under path (relative, forward slashes) and returns the
// public URL it will be served from.
func (s *Store) Save(path string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}

	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	abs := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.staticBase + "/" + strings.TrimPrefix(path, "/"), nil
}

// BaseDir exposes the root so the router can mount a static file handler.
func (s *Store) BaseDir() string { return s.baseDir }
