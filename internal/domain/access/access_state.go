package access

import "learning-app/internal/domain/users"

// StateFor maps the current user (nil when logged out) to a session state.
func StateFor(u *users.User) SessionState {
	if u == nil || u.ID == 0 {
		return StateAnonymous
	}
	if u.IsEditor() {
		return StateEditor
	}
	return StateReader
}
