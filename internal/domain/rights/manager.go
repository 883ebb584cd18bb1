package rights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learning-app/internal/domain/users"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("exploration rights not found")
	ErrForbidden         = errors.New("not allowed to change exploration rights")
	ErrInvalidTransition = errors.New("invalid exploration status transition")
	ErrInvalidRole       = errors.New("invalid role")
	ErrAlreadyHasRole    = errors.New("user already has this role")
)

// Manager owns role and status changes on explorations.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// CreateInTx writes private rights for a new exploration owned by ownerID.
func CreateInTx(tx *gorm.DB, explorationID string, ownerID uint) error {
	r := ExplorationRights{
		ExplorationID: explorationID,
		Status:        StatusPrivate,
	}
	if err := tx.Create(&r).Error; err != nil {
		return err
	}
	owner := RoleAssignment{
		ExplorationID: explorationID,
		UserID:        ownerID,
		Role:          RoleOwner,
	}
	return tx.Create(&owner).Error
}

func (m *Manager) Snapshot(ctx context.Context, explorationID string) (Snapshot, error) {
	return Load(m.db.WithContext(ctx), explorationID)
}

// AssignRole grants role to assigneeID on behalf of committerID.
// The owner role is not assignable: an exploration has exactly one owner.
func (m *Manager) AssignRole(ctx context.Context, committerID uint, explorationID string, assigneeID uint, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if role == RoleOwner {
		return fmt.Errorf("%w: an exploration has a single owner", ErrInvalidRole)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap, committer, err := loadForChange(tx, committerID, explorationID)
		if err != nil {
			return err
		}
		if !CanManage(&committer, snap) {
			return ErrForbidden
		}

		if _, err := users.FindByID(tx, assigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, assigneeID)
			}
			return err
		}

		current, has := snap.RoleOf(assigneeID)
		switch role {
		case RoleEditor:
			if has && current != RoleViewer {
				return fmt.Errorf("%w: user %d can already edit", ErrAlreadyHasRole, assigneeID)
			}
			if has {
				if err := tx.Model(&RoleAssignment{}).
					Where("exploration_id = ? AND user_id = ?", explorationID, assigneeID).
					Update("role", RoleEditor).Error; err != nil {
					return err
				}
				return touch(tx, explorationID)
			}
		case RoleViewer:
			if has {
				return fmt.Errorf("%w: user %d can already view", ErrAlreadyHasRole, assigneeID)
			}
			if snap.Status != StatusPrivate {
				return fmt.Errorf("%w: public explorations can be viewed by anyone", ErrInvalidRole)
			}
		}

		a := RoleAssignment{ExplorationID: explorationID, UserID: assigneeID, Role: role}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		return touch(tx, explorationID)
	})
}

// PublishExploration moves a private exploration to public.
func (m *Manager) PublishExploration(ctx context.Context, committerID uint, explorationID string) error {
	return m.changeStatus(ctx, committerID, explorationID, StatusPrivate, StatusPublic, CanManage)
}

// PublicizeExploration moves a public exploration to publicized. Admins only.
func (m *Manager) PublicizeExploration(ctx context.Context, committerID uint, explorationID string) error {
	return m.changeStatus(ctx, committerID, explorationID, StatusPublic, StatusPublicized,
		func(u *users.User, _ Snapshot) bool { return u.IsAdmin() })
}

func (m *Manager) changeStatus(
	ctx context.Context,
	committerID uint,
	explorationID string,
	from, to Status,
	allowed func(*users.User, Snapshot) bool,
) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap, committer, err := loadForChange(tx, committerID, explorationID)
		if err != nil {
			return err
		}
		if !allowed(&committer, snap) {
			return ErrForbidden
		}
		if snap.Status != from {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, snap.Status, to)
		}

		res := tx.Model(&ExplorationRights{}).
			Where("exploration_id = ? AND status = ?", explorationID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		return nil
	})
}

func loadForChange(tx *gorm.DB, committerID uint, explorationID string) (Snapshot, users.User, error) {
	snap, err := Load(tx, explorationID)
	if err != nil {
		return Snapshot{}, users.User{}, err
	}
	committer, err := users.FindByID(tx, committerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, users.User{}, ErrForbidden
		}
		return Snapshot{}, users.User{}, err
	}
	return snap, committer, nil
}

func touch(tx *gorm.DB, explorationID string) error {
	return tx.Model(&ExplorationRights{}).
		Where("exploration_id = ?", explorationID).
		Update("updated_at", time.Now()).Error
}
