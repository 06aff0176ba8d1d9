package models

import "gorm.io/gorm"

// RequestStatus is the review state of a publish request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// Valid reports whether s is a known review state.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PublishRequest tracks a magazine's path through admin review. Exactly one
// exists per magazine. RejectionNote is non-nil iff Status is REJECTED;
// approving clears it.
type PublishRequest struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	MagazineID    string        `json:"magazine_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required,uuid"`
	PublisherID   string        `json:"publisher_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	Status        RequestStatus `json:"status" gorm:"type:varchar(20);index"`
	RejectionNote *string       `json:"rejection_note,omitempty"`
	Magazine      *Magazine     `json:"magazine,omitempty" gorm:"foreignKey:MagazineID"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
