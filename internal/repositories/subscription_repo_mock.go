package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// MockSubscriptionRepository is an in-memory implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	subscriptions map[string]models.Subscription // keyed by userID+"/"+magazineID
	mu            sync.RWMutex
}

// NewMockSubscriptionRepository creates a new instance of MockSubscriptionRepository.
func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subscriptions: make(map[string]models.Subscription),
	}
}

func pairKey(userID, magazineID string) string {
	return userID + "/" + magazineID
}

// Create stores a new subscription, rejecting a duplicate pair.
func (r *MockSubscriptionRepository) Create(subscription *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(subscription.UserID, subscription.MagazineID)
	if _, ok := r.subscriptions[key]; ok {
		return fmt.Errorf("subscription for user %s to magazine %s: %w",
			subscription.UserID, subscription.MagazineID, apperrors.ErrConflict)
	}
	if subscription.ID == "" {
		subscription.ID = uuid.New().String()
	}
	subscription.CreatedAt = time.Now()
	r.subscriptions[key] = *subscription
	return nil
}

// Delete removes the subscription for the pair.
func (r *MockSubscriptionRepository) Delete(userID, magazineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(userID, magazineID)
	if _, ok := r.subscriptions[key]; !ok {
		return fmt.Errorf("subscription for user %s to magazine %s: %w", userID, magazineID, apperrors.ErrNotFound)
	}
	delete(r.subscriptions, key)
	return nil
}

// ListUserIDs returns the ids of all users subscribed to a magazine.
func (r *MockSubscriptionRepository) ListUserIDs(magazineID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userIDs := make([]string, 0)
	for _, s := range r.subscriptions {
		if s.MagazineID == magazineID {
			userIDs = append(userIDs, s.UserID)
		}
	}
	return userIDs, nil
}

// CountSince counts subscriptions created at or after the given time.
func (r *MockSubscriptionRepository) CountSince(since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, s := range r.subscriptions {
		if !s.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
