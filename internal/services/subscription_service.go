package services

import (
	"context"
	"fmt"
	"log"

	"majalah/internal/apperrors"
	"majalah/internal/models"
	"majalah/internal/repositories"
	"majalah/pkg/mailer"
)

// SubscriptionService tracks which users follow which approved magazines.
type SubscriptionService struct {
	subs      repositories.SubscriptionRepository
	magazines repositories.MagazineRepository
	users     repositories.UserRepository
	mailer    mailer.Mailer
	activity  *ActivityService
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	subs repositories.SubscriptionRepository,
	magazines repositories.MagazineRepository,
	users repositories.UserRepository,
	m mailer.Mailer,
	activity *ActivityService,
) *SubscriptionService {
	return &SubscriptionService{
		subs:      subs,
		magazines: magazines,
		users:     users,
		mailer:    m,
		activity:  activity,
	}
}

// Subscribe creates a subscription for the caller. The magazine's publish
// request must be APPROVED, and a duplicate pair fails with a conflict. A
// confirmation email is dispatched best-effort.
func (s *SubscriptionService) Subscribe(principal models.Principal, magazineID string) (*models.Subscription, error) {
	magazine, err := s.magazines.GetMagazineByID(magazineID)
	if err != nil {
		return nil, err
	}
	request, err := s.magazines.GetRequestByMagazineID(magazineID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.StatusApproved {
		return nil, fmt.Errorf("magazine %s is not approved: %w", magazineID, apperrors.ErrInvalidState)
	}

	subscription := &models.Subscription{
		UserID:     principal.UserID,
		MagazineID: magazineID,
	}
	if err := s.subs.Create(subscription); err != nil {
		return nil, err
	}

	go s.sendConfirmation(principal.UserID, magazine.Title)

	s.activity.Log(principal.UserID, models.ActionSubscribeMagazine, magazineID,
		fmt.Sprintf("User subscribed to magazine: %s", magazine.Title))

	return subscription, nil
}

// sendConfirmation mails the subscriber a confirmation. Best-effort.
func (s *SubscriptionService) sendConfirmation(userID, magazineTitle string) {
	ctx := context.Background()
	user, err := s.users.GetByID(userID)
	if err != nil || user.Email == "" {
		log.Printf("Warning: could not resolve subscriber %s for confirmation mail: %v", userID, err)
		return
	}

	name := user.Name
	if name == "" {
		name = "Subscriber"
	}
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>You have successfully subscribed to <strong>%s</strong>.</p><p>Thank you for using our magazine platform!</p>",
		name, magazineTitle)
	if err := s.mailer.Send(ctx, user.Email, "Subscription Confirmed", body); err != nil {
		log.Printf("Warning: failed to send subscription confirmation to %s: %v", user.Email, err)
	}
}

// Unsubscribe removes the caller's subscription to a magazine.
func (s *SubscriptionService) Unsubscribe(principal models.Principal, magazineID string) error {
	return s.subs.Delete(principal.UserID, magazineID)
}

// ListSubscriberIDs returns the ids of the users subscribed to a magazine.
func (s *SubscriptionService) ListSubscriberIDs(magazineID string) ([]string, error) {
	return s.subs.ListUserIDs(magazineID)
}
