package services

import (
	"fmt"
	"strings"
	"time"

	"majalah/internal/apperrors"
	"majalah/internal/models"
	"majalah/internal/repositories"
)

// MagazineService handles the publisher side of the workflow: submission,
// pending edits, deletion and magazine queries.
type MagazineService struct {
	repo     repositories.MagazineRepository
	userRepo repositories.UserRepository
	activity *ActivityService
}

// NewMagazineService creates a new MagazineService.
func NewMagazineService(repo repositories.MagazineRepository, userRepo repositories.UserRepository, activity *ActivityService) *MagazineService {
	return &MagazineService{
		repo:     repo,
		userRepo: userRepo,
		activity: activity,
	}
}

// SubmitInput is the content of a new magazine submission.
type SubmitInput struct {
	Title    string
	Category string
	Content  string
	Price    float64
	Images   []string
}

// Submit creates a magazine together with its PENDING publish request.
// Publisher role required.
func (s *MagazineService) Submit(principal models.Principal, input SubmitInput) (*models.Magazine, *models.PublishRequest, error) {
	if !principal.IsPublisher() {
		return nil, nil, fmt.Errorf("publishers only: %w", apperrors.ErrAccessDenied)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Category) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, nil, fmt.Errorf("title, category and content are required: %w", apperrors.ErrValidation)
	}

	magazine := &models.Magazine{
		Title:       input.Title,
		Category:    input.Category,
		Content:     input.Content,
		Price:       input.Price,
		Images:      input.Images,
		PublisherID: principal.UserID,
	}
	request := &models.PublishRequest{
		PublisherID: principal.UserID,
		Status:      models.StatusPending,
	}
	if err := s.repo.CreateWithRequest(magazine, request); err != nil {
		return nil, nil, err
	}

	s.activity.Log(principal.UserID, models.ActionSubmitRequest, request.ID,
		fmt.Sprintf("Publisher submitted magazine: %s", magazine.Title))

	return magazine, request, nil
}

// UpdateWhilePending applies a partial update to a magazine whose request is
// still pending. Fields absent from the update keep their stored value.
func (s *MagazineService) UpdateWhilePending(principal models.Principal, requestID string, updates models.MagazineUpdate) (*models.Magazine, error) {
	if !principal.IsPublisher() {
		return nil, fmt.Errorf("publishers only: %w", apperrors.ErrAccessDenied)
	}

	request, err := s.repo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.PublisherID != principal.UserID {
		return nil, fmt.Errorf("publish request %s is not owned by the caller: %w", requestID, apperrors.ErrAccessDenied)
	}
	if request.Status != models.StatusPending {
		return nil, fmt.Errorf("cannot edit a magazine whose request is %s: %w", request.Status, apperrors.ErrInvalidState)
	}

	magazine := request.Magazine
	if magazine == nil {
		magazine, err = s.repo.GetMagazineByID(request.MagazineID)
		if err != nil {
			return nil, err
		}
	}
	updates.Apply(magazine)
	if err := s.repo.UpdateMagazine(magazine); err != nil {
		return nil, err
	}
	return magazine, nil
}

// DeleteByPublisher removes a magazine and its publish request. The caller
// must be the owning publisher.
func (s *MagazineService) DeleteByPublisher(principal models.Principal, magazineID string) error {
	if !principal.IsPublisher() {
		return fmt.Errorf("publishers only: %w", apperrors.ErrAccessDenied)
	}

	magazine, err := s.repo.GetMagazineByID(magazineID)
	if err != nil {
		return err
	}
	if magazine.PublisherID != principal.UserID {
		return fmt.Errorf("magazine %s is not owned by the caller: %w", magazineID, apperrors.ErrAccessDenied)
	}
	if err := s.repo.DeleteWithRequest(magazineID); err != nil {
		return err
	}

	s.activity.Log(principal.UserID, models.ActionDeleteMagazine, magazineID,
		fmt.Sprintf("Publisher deleted magazine: %s", magazine.Title))
	return nil
}

// AdminDelete removes any magazine together with its publish request.
func (s *MagazineService) AdminDelete(principal models.Principal, magazineID string) error {
	if !principal.IsAdmin() {
		return fmt.Errorf("admins only: %w", apperrors.ErrAccessDenied)
	}
	if _, err := s.repo.GetMagazineByID(magazineID); err != nil {
		return err
	}
	return s.repo.DeleteWithRequest(magazineID)
}

// RequestSummary is the review-state projection attached to magazine details.
type RequestSummary struct {
	ID        string               `json:"id"`
	Status    models.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// MagazineDetails is a magazine with its publisher identity and review state.
type MagazineDetails struct {
	models.Magazine
	Publisher models.Profile  `json:"publisher"`
	Request   *RequestSummary `json:"request,omitempty"`
}

// GetMagazine returns a magazine annotated with publisher identity and the
// current review state.
func (s *MagazineService) GetMagazine(magazineID string) (*MagazineDetails, error) {
	magazine, err := s.repo.GetMagazineByID(magazineID)
	if err != nil {
		return nil, err
	}

	details := &MagazineDetails{Magazine: *magazine}
	if publisher, err := s.userRepo.GetByID(magazine.PublisherID); err == nil {
		details.Publisher = publisher.Profile()
	} else {
		details.Publisher = models.Profile{ID: magazine.PublisherID}
	}
	if request, err := s.repo.GetRequestByMagazineID(magazineID); err == nil {
		details.Request = &RequestSummary{ID: request.ID, Status: request.Status, CreatedAt: request.CreatedAt}
	}
	return details, nil
}

// ListMyRequests returns the caller's publish requests, filtered.
func (s *MagazineService) ListMyRequests(principal models.Principal, filter repositories.RequestFilter) ([]models.PublishRequest, error) {
	if !principal.IsPublisher() {
		return nil, fmt.Errorf("publishers only: %w", apperrors.ErrAccessDenied)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q: %w", filter.Status, apperrors.ErrValidation)
	}
	filter.PublisherID = principal.UserID
	return s.repo.ListRequests(filter)
}

// ListMyMagazines returns the caller's approved magazines, filtered.
func (s *MagazineService) ListMyMagazines(principal models.Principal, filter repositories.MagazineFilter) ([]models.Magazine, error) {
	if !principal.IsPublisher() {
		return nil, fmt.Errorf("publishers only: %w", apperrors.ErrAccessDenied)
	}
	filter.PublisherID = principal.UserID
	filter.ApprovedOnly = true
	return s.repo.ListMagazines(filter)
}

// ListApproved returns the public approved catalogue, filtered.
func (s *MagazineService) ListApproved(filter repositories.MagazineFilter) ([]models.Magazine, error) {
	filter.ApprovedOnly = true
	return s.repo.ListMagazines(filter)
}
