package models

import "gorm.io/gorm"

// Comment is a user remark on a magazine. Only its author (or an admin) may
// change or remove it.
type Comment struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string `json:"user_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	MagazineID string `json:"magazine_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	Content    string `json:"content" validate:"required"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// CommentView is a comment annotated with its author's public identity,
// as returned by the listing endpoint.
type CommentView struct {
	Comment
	Author Profile `json:"author"`
}
