package access

import "fmt"

func CapabilitiesFor(state SessionState) []Capability {
	switch state {
	case StateAnonymous:
		return []Capability{CapLogin, CapSignupPrompt, CapMarketingBanner}
	case StateReader:
		return []Capability{CapLogout, CapProfile, CapCreateExploration, CapMarketingBanner}
	case StateEditor:
		return []Capability{CapLogout, CapProfile, CapDashboard, CapCreateExploration}
	default:
		panic(fmt.Sprintf("access: unhandled session state %q", state))
	}
}
