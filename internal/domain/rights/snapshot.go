package rights

import (
	"fmt"
	"sort"

	"learning-app/internal/domain/users"

	"gorm.io/gorm"
)

// Snapshot is the rights state of one exploration at read time.
type Snapshot struct {
	ExplorationID  string   `json:"-"`
	Status         Status   `json:"status"`
	OwnerIDs       []uint   `json:"owner_ids"`
	EditorIDs      []uint   `json:"editor_ids"`
	ViewerIDs      []uint   `json:"viewer_ids"`
	OwnerNames     []string `json:"owner_names"`
	CommunityOwned bool     `json:"community_owned"`
	ClonedFrom     *string  `json:"cloned_from"`
}

// RoleOf returns the role userID holds, if any.
func (s Snapshot) RoleOf(userID uint) (Role, bool) {
	for _, id := range s.OwnerIDs {
		if id == userID {
			return RoleOwner, true
		}
	}
	for _, id := range s.EditorIDs {
		if id == userID {
			return RoleEditor, true
		}
	}
	for _, id := range s.ViewerIDs {
		if id == userID {
			return RoleViewer, true
		}
	}
	return "", false
}

func Load(db *gorm.DB, explorationID string) (Snapshot, error) {
	snaps, err := LoadMany(db, []string{explorationID})
	if err != nil {
		return Snapshot{}, err
	}
	s, ok := snaps[explorationID]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, explorationID)
	}
	return s, nil
}

// LoadMany returns snapshots keyed by exploration id. Unknown ids are skipped.
func LoadMany(db *gorm.DB, explorationIDs []string) (map[string]Snapshot, error) {
	out := make(map[string]Snapshot, len(explorationIDs))
	if len(explorationIDs) == 0 {
		return out, nil
	}

	var rows []ExplorationRights
	if err := db.Where("exploration_id IN ?", explorationIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ExplorationID] = Snapshot{
			ExplorationID:  r.ExplorationID,
			Status:         r.Status,
			OwnerIDs:       []uint{},
			EditorIDs:      []uint{},
			ViewerIDs:      []uint{},
			OwnerNames:     []string{},
			CommunityOwned: r.CommunityOwned,
			ClonedFrom:     r.ClonedFrom,
		}
	}

	var assignments []RoleAssignment
	if err := db.Where("exploration_id IN ?", explorationIDs).
		Order("user_id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	ownerIDs := map[uint]struct{}{}
	for _, a := range assignments {
		s, ok := out[a.ExplorationID]
		if !ok {
			continue
		}
		switch a.Role {
		case RoleOwner:
			s.OwnerIDs = append(s.OwnerIDs, a.UserID)
			ownerIDs[a.UserID] = struct{}{}
		case RoleEditor:
			s.EditorIDs = append(s.EditorIDs, a.UserID)
		case RoleViewer:
			s.ViewerIDs = append(s.ViewerIDs, a.UserID)
		}
		out[a.ExplorationID] = s
	}

	names, err := displayNames(db, ownerIDs)
	if err != nil {
		return nil, err
	}
	for id, s := range out {
		for _, uid := range s.OwnerIDs {
			if n, ok := names[uid]; ok {
				s.OwnerNames = append(s.OwnerNames, n)
			}
		}
		sort.Strings(s.OwnerNames)
		out[id] = s
	}
	return out, nil
}

// displayNames maps user ids to usernames. Users without one are omitted.
func displayNames(db *gorm.DB, ids map[uint]struct{}) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list := make([]uint, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	var us []users.User
	if err := db.Where("id IN ?", list).Find(&us).Error; err != nil {
		return nil, err
	}
	for _, u := range us {
		if u.IsEditor() {
			out[u.ID] = *u.Username
		}
	}
	return out, nil
}
