package users

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const TokenEmailVerification = "email_verification"

var ErrTokenExpired = errors.New("verification token expired")

// VerificationToken is a one-time link token mailed to a new local account.
type VerificationToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Kind      string    `gorm:"column:type;type:varchar(32);index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (t VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ConsumeVerificationToken marks the token's user verified and deletes the
// token. It returns gorm.ErrRecordNotFound for unknown tokens.
func ConsumeVerificationToken(db *gorm.DB, token string, now time.Time) (uint, error) {
	var userID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var vt VerificationToken
		if err := tx.Where("token = ? AND type = ?", token, TokenEmailVerification).First(&vt).Error; err != nil {
			return err
		}
		if vt.Expired(now) {
			return ErrTokenExpired
		}
		if err := tx.Model(&User{}).Where("id = ?", vt.UserID).Update("is_verified", true).Error; err != nil {
			return err
		}
		userID = vt.UserID
		return tx.Delete(&vt).Error
	})
	return userID, err
}
