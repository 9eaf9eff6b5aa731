package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cppla/codeshare/models"
)

// FileStore keeps the snapshot in one JSON file, rewritten wholesale on every save.
// It assumes a single process owns the file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens (or initializes) the document at path.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}
	s := &FileStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(models.NewSnapshot(), 0); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}
	return s, nil
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (*models.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	snap, err := decode(b)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", s.path, err)
	}
	return snap, nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := int64(0)
	b, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if current, err = decodeVersion(b); err != nil {
			return fmt.Errorf("store: decode %s: %w", s.path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("store: read %s: %w", s.path, err)
	}
	if current != snap.Version {
		return ErrConflict
	}

	next := snap.Version + 1
	if err := s.write(snap, next); err != nil {
		return err
	}
	snap.Version = next
	return nil
}

// write replaces the document atomically: temp file in the same directory, fsync, rename.
func (s *FileStore) write(snap *models.Snapshot, version int64) error {
	data, err := encode(snap, version)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("store: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("store: replace %s: %w", s.path, err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }
