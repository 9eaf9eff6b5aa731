package models

import "time"

// SnapshotRecord is the relational row holding the serialized snapshot document.
type SnapshotRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	Data      []byte    `gorm:"type:longblob;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name.
func (SnapshotRecord) TableName() string { return "snapshots" }
