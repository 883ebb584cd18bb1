package users

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

/*
	Editor registration
	-------------------
	- A user becomes a registered editor by choosing a username.
	- Usernames are lowercase letters and digits only, at most 30 chars.
	- Pass db in, do NOT import learning-app/database here.
*/

const MaxUsernameLength = 30

var (
	ErrInvalidUsername   = errors.New("invalid username")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrAlreadyRegistered = errors.New("user is already a registered editor")
	ErrTermsNotAccepted  = errors.New("terms of use must be accepted")

	validUsername     = regexp.MustCompile(`^[a-z0-9]+$`)
	reservedUsernames = []string{"admin", "oppia"}
)

// NormalizeUsername lowercases and trims the requested name.
// Example: " Alice42 " -> "alice42"
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidUsername, MaxUsernameLength)
	}
	if !validUsername.MatchString(username) {
		return fmt.Errorf("%w: only lowercase letters and digits are allowed", ErrInvalidUsername)
	}
	for _, r := range reservedUsernames {
		if strings.Contains(username, r) {
			return fmt.Errorf("%w: %q is reserved", ErrInvalidUsername, r)
		}
	}
	return nil
}

// RegisterEditor assigns a username to user and persists it.
func RegisterEditor(db *gorm.DB, user *User, rawUsername string, agreedToTerms bool) error {
	if user == nil || user.ID == 0 {
		return fmt.Errorf("user missing")
	}
	if user.IsEditor() {
		return ErrAlreadyRegistered
	}
	if !agreedToTerms {
		return ErrTermsNotAccepted
	}

	username := NormalizeUsername(rawUsername)
	if err := ValidateUsername(username); err != nil {
		return err
	}

	now := time.Now()
	res := db.Model(&User{}).
		Where("id = ? AND (username IS NULL OR username = '')", user.ID).
		Updates(map[string]any{"username": username, "agreed_to_terms_at": now})
	if res.Error != nil {
		// idx_users_username decides races; report the loser as a taken name.
		if taken, err := usernameHeldByOther(db, username, user.ID); err == nil && taken {
			return ErrUsernameTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyRegistered
	}

	user.Username = &username
	user.AgreedToTermsAt = &now
	return nil
}

func usernameHeldByOther(db *gorm.DB, username string, userID uint) (bool, error) {
	var n int64
	err := db.Model(&User{}).Where("username = ? AND id <> ?", username, userID).Count(&n).Error
	return n > 0, err
}
