package users

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID           uint    `gorm:"primaryKey"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"`
	IsVerified   bool

	// Username is set when the user registers as an editor.
	Username *string `gorm:"uniqueIndex:idx_users_username"`

	AgreedToTermsAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEditor reports whether the user has completed editor registration.
func (u User) IsEditor() bool {
	return u.Username != nil && strings.TrimSpace(*u.Username) != ""
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) DisplayName() string {
	if u.IsEditor() {
		return *u.Username
	}
	return u.Email
}
