package store

import (
	"context"
	"sync"

	"github.com/cppla/codeshare/models"
)

// MemoryStore keeps the snapshot in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.Mutex
	snap    *models.Snapshot
	saveErr error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snap: models.NewSnapshot()}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if snap.Version != m.snap.Version {
		return ErrConflict
	}
	next := snap.Clone()
	next.Version++
	m.snap = next
	snap.Version = next.Version
	return nil
}

// FailSaves makes every subsequent Save return err; nil restores normal behaviour.
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
