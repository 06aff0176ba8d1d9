package repositories

import (
	"time"

	"majalah/internal/models"
)

// SubscriptionRepository defines the interface for subscription data access.
type SubscriptionRepository interface {
	// Create stores a subscription; a duplicate (user, magazine) pair fails
	// with apperrors.ErrConflict, enforced by the store's unique index.
	Create(subscription *models.Subscription) error
	// Delete removes the subscription for the pair, failing with
	// apperrors.ErrNotFound when none exists.
	Delete(userID, magazineID string) error
	ListUserIDs(magazineID string) ([]string, error)
	CountSince(since time.Time) (int64, error)
}
