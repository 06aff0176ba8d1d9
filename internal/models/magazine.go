package models

import "gorm.io/gorm"

// Magazine holds the content a publisher submits for review. A magazine is
// created together with exactly one PublishRequest and is mutable only while
// that request is still pending.
type Magazine struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Category    string   `json:"category" gorm:"index" validate:"required,min=1,max=100"`
	Content     string   `json:"content" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Images      []string `json:"images" gorm:"serializer:json"`
	PublisherID string   `json:"publisher_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// MagazineUpdate carries a partial update for a pending magazine. Nil fields
// keep the stored value.
type MagazineUpdate struct {
	Title    *string
	Category *string
	Content  *string
	Price    *float64
	Images   []string
}

// Apply merges the non-nil fields into the magazine.
func (u MagazineUpdate) Apply(m *Magazine) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.Content != nil {
		m.Content = *u.Content
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if len(u.Images) > 0 {
		m.Images = u.Images
	}
}
