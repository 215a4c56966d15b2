// Package jsonfile implements the document backend on a plain JSON file,
// the layout used when the scheduler document lives in an externally
// synchronized folder.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ganot/rota/internal/repository"
)

// Store implements repository.DocumentBackend on a single JSON file.
// Writes go through a temp file and rename so an interrupted write never
// leaves a truncated document behind.
type Store struct {
	path       string
	legacyPath string
}

// New creates a file-backed document store. legacyPath, if non-empty,
// points at the standalone statistics file consumed once by migration.
func New(path, legacyPath string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile: empty document path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonfile: create document dir: %w", err)
		}
	}
	return &Store{path: path, legacyPath: legacyPath}, nil
}

// Read returns the current document bytes.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", repository.ErrStorageRead, s.path, err)
	}
	return data, nil
}

// Write atomically replaces the document file.
func (s *Store) Write(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", repository.ErrStorageWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %w", repository.ErrStorageWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync temp file: %w", repository.ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %w", repository.ErrStorageWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %w", repository.ErrStorageWrite, s.path, err)
	}
	return nil
}

// ReadLegacy returns the legacy statistics file contents.
func (s *Store) ReadLegacy(ctx context.Context) ([]byte, error) {
	if s.legacyPath == "" {
		return nil, repository.ErrNotFound
	}
	data, err := os.ReadFile(s.legacyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read legacy stats: %w", repository.ErrStorageRead, err)
	}
	return data, nil
}
