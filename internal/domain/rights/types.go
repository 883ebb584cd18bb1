package rights

import "fmt"

type Status string

const (
	StatusPrivate    Status = "private"
	StatusPublic     Status = "public"
	StatusPublicized Status = "publicized"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPrivate, StatusPublic, StatusPublicized:
		return true
	}
	return false
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}
