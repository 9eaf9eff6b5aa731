// Package store persists the board snapshot. Every backend keeps the whole state as one
// document and guards Save with an optimistic version check.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cppla/codeshare/config"
	"github.com/cppla/codeshare/models"
	"github.com/cppla/codeshare/utils"
)

// ErrConflict is returned by Save when the stored snapshot changed since it was loaded.
var ErrConflict = errors.New("store: snapshot version conflict")

// Store loads and saves the entire board state as one unit.
type Store interface {
	// Load returns the current snapshot, or an empty one on first run.
	Load(ctx context.Context) (*models.Snapshot, error)
	// Save persists snap if the stored version still equals snap.Version and bumps
	// snap.Version on success. A failed Save leaves the stored state untouched.
	Save(ctx context.Context, snap *models.Snapshot) error
	// Close releases backend resources.
	Close() error
}

// New builds the backend selected by cfg.StoreDriver.
func New(cfg config.AppConfig) (Store, error) {
	switch cfg.StoreDriver {
	case "file", "":
		return NewFileStore(cfg.DataFile)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		rc := utils.GetRedis()
		if rc == nil {
			return nil, errors.New("store: redis driver selected but REDIS_HOST is not set")
		}
		return NewRedisStore(rc, cfg.RedisSnapshotKey), nil
	case "mysql", "sqlite":
		db, err := config.OpenDatabase(cfg, cfg.StoreDriver, &models.SnapshotRecord{})
		if err != nil {
			return nil, err
		}
		return NewGormStore(db)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.StoreDriver)
	}
}
