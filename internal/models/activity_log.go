package models

import "gorm.io/gorm"

// Activity log actions recorded by the platform.
const (
	ActionSubmitRequest     = "SUBMIT_PUBLISH_REQUEST"
	ActionDeleteMagazine    = "DELETE_MAGAZINE"
	ActionSubscribeMagazine = "SUBSCRIBE_MAGAZINE"
)

// ActivityLog is a best-effort audit record. Writes are fire-and-forget and
// never affect the operation that triggered them.
type ActivityLog struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string `json:"user_id" gorm:"index;type:varchar(36)"`
	Action     string `json:"action" gorm:"type:varchar(64)"`
	TargetID   string `json:"target_id,omitempty" gorm:"type:varchar(36)"`
	Details    string `json:"details,omitempty"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
