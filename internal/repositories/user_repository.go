package repositories

import "majalah/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// ListByIDs returns the users for the given ids; absent ids are skipped.
	ListByIDs(ids []string) ([]models.User, error)
	Update(user *models.User) error
}
