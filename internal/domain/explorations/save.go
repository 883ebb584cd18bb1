package explorations

import (
	"errors"
	"fmt"
	"strings"

	"learning-app/internal/domain/rights"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTitleRequired = errors.New("exploration title is required")

// NewID returns a fresh exploration id.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// SaveNew persists exp and its private rights with ownerID as owner.
// An empty exp.ID is filled with NewID.
func SaveNew(db *gorm.DB, exp *Exploration, ownerID uint) error {
	if exp == nil {
		return fmt.Errorf("exploration is nil")
	}
	exp.Title = strings.TrimSpace(exp.Title)
	if exp.Title == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(exp.Category) == "" {
		exp.Category = DefaultCategory
	}
	if exp.LanguageCode == "" {
		exp.LanguageCode = DefaultLanguage
	}
	if exp.ID == "" {
		exp.ID = NewID()
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exp).Error; err != nil {
			return err
		}
		return rights.CreateInTx(tx, exp.ID, ownerID)
	})
}

func FindByIDs(db *gorm.DB, ids []string) (map[string]Exploration, error) {
	out := make(map[string]Exploration, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Exploration
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, e := range rows {
		out[e.ID] = e
	}
	return out, nil
}
