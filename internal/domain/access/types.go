package access

// SessionState is who is looking at a page. The three values are exhaustive.
type SessionState string

const (
	StateAnonymous SessionState = "anonymous"
	StateReader    SessionState = "reader"
	StateEditor    SessionState = "editor"
)

type Capability string

const (
	CapLogin             Capability = "login"
	CapLogout            Capability = "logout"
	CapProfile           Capability = "profile"
	CapDashboard         Capability = "dashboard"
	CapCreateExploration Capability = "create_exploration"
	CapSignupPrompt      Capability = "signup_prompt"
	CapMarketingBanner   Capability = "marketing_banner"
)
