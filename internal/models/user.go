package models

import "gorm.io/gorm"

// Roles a user can hold on the platform.
const (
	RoleAdmin      = "admin"
	RolePublisher  = "publisher"
	RoleSubscriber = "subscriber"
)

// User represents a platform account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role       string `json:"role" gorm:"type:varchar(20)" validate:"required,oneof=admin publisher subscriber"`
	Name       string `json:"name,omitempty" validate:"omitempty,max=100"`
	Avatar     string `json:"avatar,omitempty"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Profile is the public identity projection of a user.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Profile returns the user's public identity.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
