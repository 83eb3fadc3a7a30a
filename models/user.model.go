package models

import (
	"time"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login information
	Username string `gorm:"unique;not null;size:50" json:"username"`
	Email    string `gorm:"unique;not null;size:100" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Profile
	FullName string `gorm:"size:100" json:"full_name"`
	ImageURL string `json:"image_url"`

	// Role & Status
	Role string `gorm:"default:'user';size:20" json:"role"` // user, admin

	// System Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the public shape of a user returned by the inbox and by
// user search. Never carries credentials.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	ImageURL string `json:"image_url"`
}

// Summary strips a user down to its public fields.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		ImageURL: u.ImageURL,
	}
}
