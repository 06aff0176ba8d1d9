package repositories

import (
	"time"

	"majalah/internal/models"
)

// MagazineFilter narrows magazine listings. Zero-valued fields apply no
// constraint; all set fields AND together.
type MagazineFilter struct {
	PublisherID  string
	Category     string
	Title        string
	Search       string // case-insensitive substring over title OR content
	MinPrice     *float64
	MaxPrice     *float64
	ApprovedOnly bool
}

// RequestFilter narrows publish-request listings.
type RequestFilter struct {
	Status      models.RequestStatus
	PublisherID string
	Category    string
	Title       string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	From        *time.Time
	To          *time.Time
}

// MagazineRepository is the data access interface for the magazine aggregate:
// a Magazine and its one PublishRequest. The paired create and delete are
// atomic so neither record can exist without the other.
type MagazineRepository interface {
	CreateWithRequest(magazine *models.Magazine, request *models.PublishRequest) error
	GetMagazineByID(id string) (*models.Magazine, error)
	UpdateMagazine(magazine *models.Magazine) error
	DeleteWithRequest(magazineID string) error
	ListMagazines(filter MagazineFilter) ([]models.Magazine, error)

	GetRequestByID(id string) (*models.PublishRequest, error)
	GetRequestByMagazineID(magazineID string) (*models.PublishRequest, error)
	SetRequestStatus(id string, status models.RequestStatus, note *string) error
	ListRequests(filter RequestFilter) ([]models.PublishRequest, error)
	CountRequestsSince(since time.Time) (int64, error)
}
