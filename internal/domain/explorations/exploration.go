package explorations

import (
	"time"
)

const (
	DefaultCategory = "Miscellany"
	DefaultLanguage = "en"
)

type Exploration struct {
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`

	Title        string `gorm:"not null" json:"title"`
	Category     string `gorm:"not null" json:"category"`
	Objective    string `json:"objective"`
	LanguageCode string `gorm:"type:varchar(16);not null;default:'en'" json:"language_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
