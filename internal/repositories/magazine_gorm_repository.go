package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// GORMMagazineRepository is a GORM implementation of MagazineRepository.
type GORMMagazineRepository struct {
	db *gorm.DB
}

// NewGORMMagazineRepository creates a new instance of GORMMagazineRepository.
func NewGORMMagazineRepository(db *gorm.DB) *GORMMagazineRepository {
	return &GORMMagazineRepository{
		db: db,
	}
}

// CreateWithRequest creates a magazine and its publish request in one
// transaction, so a crash cannot leave a magazine without a request.
func (r *GORMMagazineRepository) CreateWithRequest(magazine *models.Magazine, request *models.PublishRequest) error {
	if magazine.ID == "" {
		magazine.ID = uuid.New().String()
	}
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.MagazineID = magazine.ID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(magazine).Error; err != nil {
			return err
		}
		return tx.Create(request).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create magazine with request: %w", err)
	}
	return nil
}

// GetMagazineByID retrieves a single magazine by its ID.
func (r *GORMMagazineRepository) GetMagazineByID(id string) (*models.Magazine, error) {
	var magazine models.Magazine
	if err := r.db.First(&magazine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("magazine %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get magazine %s: %w", id, err)
	}
	return &magazine, nil
}

// UpdateMagazine saves all fields of an existing magazine.
func (r *GORMMagazineRepository) UpdateMagazine(magazine *models.Magazine) error {
	res := r.db.Save(magazine)
	if res.Error != nil {
		return fmt.Errorf("failed to update magazine: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("magazine %s: %w", magazine.ID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteWithRequest removes the publish request first, then the magazine,
// inside one transaction. The request references the magazine by id and must
// not be left dangling.
func (r *GORMMagazineRepository) DeleteWithRequest(magazineID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PublishRequest{}, "magazine_id = ?", magazineID).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Magazine{}, "id = ?", magazineID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("magazine %s: %w", magazineID, apperrors.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete magazine %s: %w", magazineID, err)
	}
	return nil
}

// ListMagazines retrieves magazines matching the filter, newest first.
func (r *GORMMagazineRepository) ListMagazines(filter MagazineFilter) ([]models.Magazine, error) {
	q := r.db.Model(&models.Magazine{})
	if filter.ApprovedOnly {
		q = q.Joins(
			"JOIN publish_requests ON publish_requests.magazine_id = magazines.id AND publish_requests.deleted_at IS NULL AND publish_requests.status = ?",
			models.StatusApproved,
		)
	}
	if filter.PublisherID != "" {
		q = q.Where("magazines.publisher_id = ?", filter.PublisherID)
	}
	if filter.Category != "" {
		q = q.Where("magazines.category = ?", filter.Category)
	}
	if filter.Title != "" {
		q = q.Where("LOWER(magazines.title) LIKE ?", containsPattern(filter.Title))
	}
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		q = q.Where("LOWER(magazines.title) LIKE ? OR LOWER(magazines.content) LIKE ?", p, p)
	}
	if filter.MinPrice != nil {
		q = q.Where("magazines.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("magazines.price <= ?", *filter.MaxPrice)
	}

	var magazines []models.Magazine
	if err := q.Order("magazines.created_at DESC").Find(&magazines).Error; err != nil {
		return nil, fmt.Errorf("failed to list magazines: %w", err)
	}
	return magazines, nil
}

// GetRequestByID retrieves a publish request with its magazine.
func (r *GORMMagazineRepository) GetRequestByID(id string) (*models.PublishRequest, error) {
	var request models.PublishRequest
	if err := r.db.Preload("Magazine").First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("publish request %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get publish request %s: %w", id, err)
	}
	return &request, nil
}

// GetRequestByMagazineID retrieves the publish request tied to a magazine.
func (r *GORMMagazineRepository) GetRequestByMagazineID(magazineID string) (*models.PublishRequest, error) {
	var request models.PublishRequest
	if err := r.db.First(&request, "magazine_id = ?", magazineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("publish request for magazine %s: %w", magazineID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get publish request for magazine %s: %w", magazineID, err)
	}
	return &request, nil
}

// SetRequestStatus updates a request's status and rejection note together,
// keeping the note-iff-rejected invariant a single write.
func (r *GORMMagazineRepository) SetRequestStatus(id string, status models.RequestStatus, note *string) error {
	res := r.db.Model(&models.PublishRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         status,
		"rejection_note": note,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update publish request %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("publish request %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListRequests retrieves publish requests matching the filter, newest first,
// each with its magazine loaded.
func (r *GORMMagazineRepository) ListRequests(filter RequestFilter) ([]models.PublishRequest, error) {
	q := r.db.Model(&models.PublishRequest{}).Preload("Magazine")
	if filter.Status != "" {
		q = q.Where("publish_requests.status = ?", filter.Status)
	}
	if filter.PublisherID != "" {
		q = q.Where("publish_requests.publisher_id = ?", filter.PublisherID)
	}
	if filter.From != nil {
		q = q.Where("publish_requests.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("publish_requests.created_at <= ?", *filter.To)
	}
	if filter.Category != "" || filter.Title != "" || filter.Search != "" || filter.MinPrice != nil || filter.MaxPrice != nil {
		q = q.Joins("JOIN magazines ON magazines.id = publish_requests.magazine_id AND magazines.deleted_at IS NULL")
		if filter.Category != "" {
			q = q.Where("magazines.category = ?", filter.Category)
		}
		if filter.Title != "" {
			q = q.Where("LOWER(magazines.title) LIKE ?", containsPattern(filter.Title))
		}
		if filter.Search != "" {
			p := containsPattern(filter.Search)
			q = q.Where("LOWER(magazines.title) LIKE ? OR LOWER(magazines.content) LIKE ?", p, p)
		}
		if filter.MinPrice != nil {
			q = q.Where("magazines.price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			q = q.Where("magazines.price <= ?", *filter.MaxPrice)
		}
	}

	var requests []models.PublishRequest
	if err := q.Order("publish_requests.created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list publish requests: %w", err)
	}
	return requests, nil
}

// CountRequestsSince counts publish requests created at or after the given time.
func (r *GORMMagazineRepository) CountRequestsSince(since time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PublishRequest{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count publish requests: %w", err)
	}
	return count, nil
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
