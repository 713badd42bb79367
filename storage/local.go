package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes uploads to a directory served as static files under
// /uploads, mirroring the single-instance deployment mode.
type LocalStore struct {
	dir           string
	publicBaseURL string
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, publicBaseURL: publicBaseURL}, nil
}

func (s *LocalStore) Save(_ context.Context, objectName string, data []byte, _ string) (string, error) {
	// objectName is a generated uuid+ext, never client input, so no path
	// traversal is possible; Base is kept as a guard anyway.
	name := filepath.Base(objectName)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return s.publicBaseURL + "/uploads/" + name, nil
}
