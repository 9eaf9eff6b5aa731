package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/codeshare/models"
)

const snapshotRowID = 1

// GormStore keeps the snapshot document in one row of the snapshots table.
// Saves are conditional updates on the version column.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore ensures the snapshot row exists and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	empty, err := encode(models.NewSnapshot(), 0)
	if err != nil {
		return nil, fmt.Errorf("store: encode: %w", err)
	}
	rec := models.SnapshotRecord{}
	err = db.Where(models.SnapshotRecord{ID: snapshotRowID}).
		Attrs(models.SnapshotRecord{Data: empty}).
		FirstOrCreate(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("store: init snapshot row: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Load implements Store.
func (g *GormStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var rec models.SnapshotRecord
	if err := g.db.WithContext(ctx).First(&rec, snapshotRowID).Error; err != nil {
		return nil, fmt.Errorf("store: load snapshot row: %w", err)
	}
	snap, err := decode(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("store: decode snapshot row: %w", err)
	}
	snap.Version = rec.Version
	return snap, nil
}

// Save implements Store.
func (g *GormStore) Save(ctx context.Context, snap *models.Snapshot) error {
	next := snap.Version + 1
	data, err := encode(snap, next)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	res := g.db.WithContext(ctx).
		Model(&models.SnapshotRecord{}).
		Where("id = ? AND version = ?", snapshotRowID, snap.Version).
		Updates(map[string]interface{}{"data": data, "version": next})
	if res.Error != nil {
		return fmt.Errorf("store: save snapshot row: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	snap.Version = next
	return nil
}

// Close implements Store.
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
