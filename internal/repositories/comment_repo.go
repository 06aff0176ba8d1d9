package repositories

import "majalah/internal/models"

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	// ListByMagazine returns a magazine's comments, newest first.
	ListByMagazine(magazineID string) ([]models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id string) error
}
