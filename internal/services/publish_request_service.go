package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"majalah/internal/apperrors"
	"majalah/internal/models"
	"majalah/internal/repositories"
	"majalah/pkg/mailer"
)

// PublishRequestService is the admin side of the workflow: the review state
// machine. PENDING, APPROVED and REJECTED are the only states; Approve and
// Reject are permitted from any state so an admin can re-review a closed
// request, and the rejection note exists iff the request is rejected.
type PublishRequestService struct {
	repo     repositories.MagazineRepository
	userRepo repositories.UserRepository
	mailer   mailer.Mailer
}

// NewPublishRequestService creates a new PublishRequestService.
func NewPublishRequestService(repo repositories.MagazineRepository, userRepo repositories.UserRepository, m mailer.Mailer) *PublishRequestService {
	return &PublishRequestService{
		repo:     repo,
		userRepo: userRepo,
		mailer:   m,
	}
}

// Approve marks a request APPROVED and clears any rejection note.
func (s *PublishRequestService) Approve(principal models.Principal, requestID string) (*models.PublishRequest, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("admins only: %w", apperrors.ErrAccessDenied)
	}
	if _, err := s.repo.GetRequestByID(requestID); err != nil {
		return nil, err
	}
	if err := s.repo.SetRequestStatus(requestID, models.StatusApproved, nil); err != nil {
		return nil, err
	}
	return s.repo.GetRequestByID(requestID)
}

// Reject marks a request REJECTED with the given reason and notifies the
// publisher by email. The notification is detached: its failure is logged and
// never rolls back the transition.
func (s *PublishRequestService) Reject(principal models.Principal, requestID, reason string) (*models.PublishRequest, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("admins only: %w", apperrors.ErrAccessDenied)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", apperrors.ErrValidation)
	}

	request, err := s.repo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRequestStatus(requestID, models.StatusRejected, &reason); err != nil {
		return nil, err
	}

	go s.notifyRejection(request, reason)

	return s.repo.GetRequestByID(requestID)
}

// notifyRejection mails the publisher the rejection reason. Best-effort.
func (s *PublishRequestService) notifyRejection(request *models.PublishRequest, reason string) {
	ctx := context.Background()

	var (
		publisher *models.User
		magazine  = request.Magazine
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		publisher, err = s.userRepo.GetByID(request.PublisherID)
		return err
	})
	if magazine == nil {
		g.Go(func() error {
			var err error
			magazine, err = s.repo.GetMagazineByID(request.MagazineID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("Warning: could not resolve rejection notification for request %s: %v", request.ID, err)
		return
	}
	if publisher.Email == "" || magazine.Title == "" {
		return
	}

	name := publisher.Name
	if name == "" {
		name = "Publisher"
	}
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your publish request for <strong>%s</strong> has been rejected.</p><p>Reason: %s</p>",
		name, magazine.Title, reason)
	if err := s.mailer.Send(ctx, publisher.Email, "Publish request rejected", body); err != nil {
		log.Printf("Warning: failed to send rejection mail for request %s: %v", request.ID, err)
	}
}

// List returns publish requests matching the filter. Admin only.
func (s *PublishRequestService) List(principal models.Principal, filter repositories.RequestFilter) ([]models.PublishRequest, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("admins only: %w", apperrors.ErrAccessDenied)
	}
	if filter.Status != "" {
		filter.Status = models.RequestStatus(strings.ToUpper(string(filter.Status)))
		if !filter.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q: %w", filter.Status, apperrors.ErrValidation)
		}
	}
	return s.repo.ListRequests(filter)
}

// Get returns one publish request. Visible to its owning publisher and to
// admins only.
func (s *PublishRequestService) Get(principal models.Principal, requestID string) (*models.PublishRequest, error) {
	request, err := s.repo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.PublisherID != principal.UserID && !principal.IsAdmin() {
		return nil, fmt.Errorf("publish request %s is not visible to the caller: %w", requestID, apperrors.ErrAccessDenied)
	}
	return request, nil
}
