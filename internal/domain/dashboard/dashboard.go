package dashboard

import (
	"context"
	"fmt"

	"learning-app/internal/domain/explorations"
	"learning-app/internal/domain/rights"

	"gorm.io/gorm"
)

// Entry is one exploration as listed on a user's dashboard.
type Entry struct {
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Objective   string          `json:"objective"`
	LastUpdated int64           `json:"last_updated_msec"`
	Rights      rights.Snapshot `json:"rights"`
}

// Visible reports whether a role puts an exploration on the holder's dashboard.
// Status never matters: viewers stay off the dashboard even once published.
func Visible(role rights.Role) bool {
	switch role {
	case rights.RoleOwner, rights.RoleEditor:
		return true
	case rights.RoleViewer:
		return false
	default:
		panic(fmt.Sprintf("dashboard: unhandled role %q", role))
	}
}

// ForUser lists the explorations userID owns or edits, keyed by id.
// The result is never nil.
func ForUser(ctx context.Context, db *gorm.DB, userID uint) (map[string]Entry, error) {
	db = db.WithContext(ctx)

	var assignments []rights.RoleAssignment
	if err := db.Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("load role assignments: %w", err)
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.Role.Valid() && Visible(a.Role) {
			ids = append(ids, a.ExplorationID)
		}
	}

	out := make(map[string]Entry, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	snaps, err := rights.LoadMany(db, ids)
	if err != nil {
		return nil, fmt.Errorf("load rights: %w", err)
	}
	exps, err := explorations.FindByIDs(db, ids)
	if err != nil {
		return nil, fmt.Errorf("load explorations: %w", err)
	}

	for _, id := range ids {
		exp, ok := exps[id]
		if !ok {
			continue
		}
		snap, ok := snaps[id]
		if !ok {
			continue
		}
		out[id] = Entry{
			Title:       exp.Title,
			Category:    exp.Category,
			Objective:   exp.Objective,
			LastUpdated: exp.UpdatedAt.UnixMilli(),
			Rights:      snap,
		}
	}
	return out, nil
}
