package rights

import "learning-app/internal/domain/users"

// CanView reports whether u may view the exploration. A nil user is anonymous.
func CanView(u *users.User, s Snapshot) bool {
	if s.Status != StatusPrivate {
		return true
	}
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	_, ok := s.RoleOf(u.ID)
	return ok
}

func CanEdit(u *users.User, s Snapshot) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() || s.CommunityOwned {
		return true
	}
	role, ok := s.RoleOf(u.ID)
	return ok && (role == RoleOwner || role == RoleEditor)
}

// CanManage reports whether u may assign roles or publish.
func CanManage(u *users.User, s Snapshot) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	role, ok := s.RoleOf(u.ID)
	return ok && role == RoleOwner
}

func CanPublish(u *users.User, s Snapshot) bool {
	return s.Status == StatusPrivate && CanManage(u, s)
}

// CanPublicize is admin only.
func CanPublicize(u *users.User, s Snapshot) bool {
	return s.Status == StatusPublic && u != nil && u.IsAdmin()
}
