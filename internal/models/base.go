// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Base is the soft-delete envelope shared by every entity. A row with
// DeletedAt set is excluded from default reads but stays addressable by id
// through the Unscoped variants for audit and recovery paths.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Deleted reports whether the row has been soft-deleted.
func (b *Base) Deleted() bool {
	return b.DeletedAt.Valid
}
