package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	comments map[string]models.Comment
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		comments: make(map[string]models.Comment),
	}
}

// Create adds a new comment.
func (r *MockCommentRepository) Create(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = *comment
	return nil
}

// GetByID returns a comment by its ID.
func (r *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return &comment, nil
}

// ListByMagazine returns a magazine's comments, newest first.
func (r *MockCommentRepository) ListByMagazine(magazineID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.MagazineID == magazineID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// Update modifies an existing comment.
func (r *MockCommentRepository) Update(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.comments[comment.ID]
	if !ok {
		return fmt.Errorf("comment %s: %w", comment.ID, apperrors.ErrNotFound)
	}
	comment.CreatedAt = prev.CreatedAt
	r.comments[comment.ID] = *comment
	return nil
}

// Delete removes a comment by its ID.
func (r *MockCommentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}
