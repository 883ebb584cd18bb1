package access

import "learning-app/internal/domain/users"

type Policy struct {
	State        SessionState
	Capabilities []Capability
}

func ComputePolicy(u *users.User) Policy {
	state := StateFor(u)
	return Policy{
		State:        state,
		Capabilities: CapabilitiesFor(state),
	}
}

func (p Policy) Can(c Capability) bool {
	for _, have := range p.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
