package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create stores a new comment.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by its ID.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment %s: %w", id, err)
	}
	return &comment, nil
}

// ListByMagazine retrieves a magazine's comments, newest first.
func (r *GORMCommentRepository) ListByMagazine(magazineID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("magazine_id = ?", magazineID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for magazine %s: %w", magazineID, err)
	}
	return comments, nil
}

// Update saves a comment's fields.
func (r *GORMCommentRepository) Update(comment *models.Comment) error {
	res := r.db.Save(comment)
	if res.Error != nil {
		return fmt.Errorf("failed to update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a comment by its ID.
func (r *GORMCommentRepository) Delete(id string) error {
	res := r.db.Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
