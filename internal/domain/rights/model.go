package rights

import "time"

type ExplorationRights struct {
	ExplorationID string `gorm:"type:varchar(64);primaryKey"`

	Status         Status  `gorm:"type:varchar(20);not null;default:'private';index"`
	CommunityOwned bool    `gorm:"not null;default:false"`
	ClonedFrom     *string `gorm:"type:varchar(64)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleAssignment grants one user one role on one exploration.
// There is at most one row per (exploration, user).
type RoleAssignment struct {
	ID uint `gorm:"primaryKey"`

	ExplorationID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_role_assignments_exp_user,priority:1"`
	UserID        uint   `gorm:"not null;uniqueIndex:idx_role_assignments_exp_user,priority:2;index"`
	Role          Role   `gorm:"type:varchar(20);not null;check:role IN ('owner', 'editor', 'viewer')"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
