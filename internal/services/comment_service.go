package services

import (
	"fmt"
	"strings"

	"majalah/internal/apperrors"
	"majalah/internal/models"
	"majalah/internal/repositories"
)

// CommentService manages ownership-scoped comments on magazines.
type CommentService struct {
	repo     repositories.CommentRepository
	userRepo repositories.UserRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo repositories.CommentRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Add creates a comment by the caller on a magazine.
func (s *CommentService) Add(principal models.Principal, magazineID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || magazineID == "" {
		return nil, fmt.Errorf("magazine id and content are required: %w", apperrors.ErrValidation)
	}

	comment := &models.Comment{
		UserID:     principal.UserID,
		MagazineID: magazineID,
		Content:    content,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns a magazine's comments, newest first, each annotated with the
// author's public identity.
func (s *CommentService) List(magazineID string) ([]models.CommentView, error) {
	comments, err := s.repo.ListByMagazine(magazineID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(comments))
	seen := make(map[string]bool, len(comments))
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]models.Profile, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Profile()
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := profiles[c.UserID]
		if !ok {
			author = models.Profile{ID: c.UserID}
		}
		views = append(views, models.CommentView{Comment: c, Author: author})
	}
	return views, nil
}

// Update changes a comment's content. Only the author or an admin may do so.
func (s *CommentService) Update(principal models.Principal, commentID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperrors.ErrValidation)
	}

	comment, err := s.repo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != principal.UserID && !principal.IsAdmin() {
		return nil, fmt.Errorf("comment %s is not owned by the caller: %w", commentID, apperrors.ErrAccessDenied)
	}

	comment.Content = content
	if err := s.repo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. Only the author may do so.
func (s *CommentService) Delete(principal models.Principal, commentID string) error {
	comment, err := s.repo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != principal.UserID {
		return fmt.Errorf("comment %s is not owned by the caller: %w", commentID, apperrors.ErrAccessDenied)
	}
	return s.repo.Delete(commentID)
}

// AdminDelete removes any comment, bypassing the ownership check.
func (s *CommentService) AdminDelete(principal models.Principal, commentID string) error {
	if !principal.IsAdmin() {
		return fmt.Errorf("admins only: %w", apperrors.ErrAccessDenied)
	}
	return s.repo.Delete(commentID)
}
