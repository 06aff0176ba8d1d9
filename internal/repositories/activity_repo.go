package repositories

import "majalah/internal/models"

// ActivityRepository defines the interface for activity log persistence.
type ActivityRepository interface {
	Create(entry *models.ActivityLog) error
}
