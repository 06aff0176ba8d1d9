package models

import "gorm.io/gorm"

// Subscription records a user following an approved magazine. The composite
// unique index keeps at most one row per (user, magazine) pair, including
// under concurrent subscribe calls.
type Subscription struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string `json:"user_id" gorm:"uniqueIndex:idx_user_magazine;type:varchar(36)" validate:"required,uuid"`
	MagazineID string `json:"magazine_id" gorm:"uniqueIndex:idx_user_magazine;type:varchar(36)" validate:"required,uuid"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
