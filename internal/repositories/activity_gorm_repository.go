package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"majalah/internal/models"
)

// GORMActivityRepository is a GORM implementation of ActivityRepository.
type GORMActivityRepository struct {
	db *gorm.DB
}

// NewGORMActivityRepository creates a new instance of GORMActivityRepository.
func NewGORMActivityRepository(db *gorm.DB) *GORMActivityRepository {
	return &GORMActivityRepository{
		db: db,
	}
}

// Create stores a new activity log entry.
func (r *GORMActivityRepository) Create(entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity log entry: %w", err)
	}
	return nil
}
