package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// GORMSubscriptionRepository is a GORM implementation of SubscriptionRepository.
// It relies on gorm.Config.TranslateError to surface duplicate-key violations
// as gorm.ErrDuplicatedKey.
type GORMSubscriptionRepository struct {
	db *gorm.DB
}

// NewGORMSubscriptionRepository creates a new instance of GORMSubscriptionRepository.
func NewGORMSubscriptionRepository(db *gorm.DB) *GORMSubscriptionRepository {
	return &GORMSubscriptionRepository{
		db: db,
	}
}

// Create stores a new subscription. The unique (user_id, magazine_id) index
// makes exactly one of two concurrent creates win.
func (r *GORMSubscriptionRepository) Create(subscription *models.Subscription) error {
	if subscription.ID == "" {
		subscription.ID = uuid.New().String()
	}
	if err := r.db.Create(subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("subscription for user %s to magazine %s: %w",
				subscription.UserID, subscription.MagazineID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// Delete removes the subscription for the (user, magazine) pair. The delete
// is unscoped: a soft-deleted row would keep occupying the unique
// (user_id, magazine_id) index and block the user from ever re-subscribing.
func (r *GORMSubscriptionRepository) Delete(userID, magazineID string) error {
	res := r.db.Unscoped().Delete(&models.Subscription{}, "user_id = ? AND magazine_id = ?", userID, magazineID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("subscription for user %s to magazine %s: %w", userID, magazineID, apperrors.ErrNotFound)
	}
	return nil
}

// ListUserIDs returns the ids of all users subscribed to a magazine.
func (r *GORMSubscriptionRepository) ListUserIDs(magazineID string) ([]string, error) {
	var userIDs []string
	err := r.db.Model(&models.Subscription{}).
		Where("magazine_id = ?", magazineID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers for magazine %s: %w", magazineID, err)
	}
	return userIDs, nil
}

// CountSince counts subscriptions created at or after the given time.
func (r *GORMSubscriptionRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Subscription{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}
