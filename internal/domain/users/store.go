package users

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("invalid user role")

func FindByID(db *gorm.DB, id uint) (User, error) {
	var u User
	err := db.First(&u, id).Error
	return u, err
}

func FindByEmail(db *gorm.DB, email string) (User, error) {
	var u User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	return u, err
}

// SetAdmins grants the admin role to every existing user whose email is listed.
func SetAdmins(db *gorm.DB, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(e)))
	}
	return db.Model(&User{}).
		Where("email IN ?", normalized).
		Update("role", RoleAdmin).Error
}

func SetRole(db *gorm.DB, userID uint, role string) error {
	if role != RoleAdmin && role != RoleUser {
		return ErrInvalidRole
	}
	res := db.Model(&User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUnverified removes a local account that never completed email
// verification, along with its tokens. Verified users are left alone.
func DeleteUnverified(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND is_verified = ?", userID, false).Delete(&User{}).Error
	})
}
