// Package pages renders the server-side HTML pages.
//
// Every view is a plain struct built by a pure constructor, so the markup a
// session state produces can be tested without any HTTP plumbing.
package pages

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"sort"
	"sync"

	"learning-app/internal/domain/access"
	"learning-app/internal/domain/dashboard"
	"learning-app/internal/domain/users"
	"learning-app/internal/infra/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	parseOnce sync.Once
	parsed    *template.Template
)

// Templates returns the parsed page set, suitable for gin's SetHTMLTemplate.
func Templates() *template.Template {
	parseOnce.Do(func() {
		parsed = template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html"))
	})
	return parsed
}

// Nav is the top bar shared by every page.
type Nav struct {
	SiteName string
	Username string

	LoginURL  string
	LogoutURL string
	SignupURL string

	ShowLogin        bool
	ShowLogout       bool
	ShowProfile      bool
	ShowDashboard    bool
	ShowCreate       bool
	ShowSignupPrompt bool
	ShowBanner       bool

	// ActiveTab is empty when no tab should be highlighted.
	ActiveTab string
}

func NewNav(siteName string, policy access.Policy, u *users.User, currentPath string) Nav {
	n := Nav{
		SiteName:         siteName,
		ShowLogin:        policy.Can(access.CapLogin),
		ShowLogout:       policy.Can(access.CapLogout),
		ShowProfile:      policy.Can(access.CapProfile),
		ShowDashboard:    policy.Can(access.CapDashboard),
		ShowCreate:       policy.Can(access.CapCreateExploration),
		ShowSignupPrompt: policy.Can(access.CapSignupPrompt),
		ShowBanner:       policy.Can(access.CapMarketingBanner),
	}
	if n.ShowLogin {
		n.LoginURL = session.LoginURL(currentPath)
	}
	if n.ShowLogout {
		n.LogoutURL = session.LogoutURL(currentPath)
	}
	if u != nil && u.IsEditor() {
		n.Username = *u.Username
	}
	if policy.State == access.StateReader {
		n.SignupURL = "/signup?" + url.Values{session.ReturnKey: {session.SafeReturnPath(currentPath)}}.Encode()
	}
	return n
}

type ExplorationRow struct {
	ID       string
	Title    string
	Category string
	Status   string
}

type HomeView struct {
	Nav
	Explorations []ExplorationRow
}

// NewHomeView builds the splash page for anonymous users and readers, and the
// dashboard for registered editors.
func NewHomeView(siteName string, u *users.User, currentPath string, entries map[string]dashboard.Entry) HomeView {
	policy := access.ComputePolicy(u)
	v := HomeView{Nav: NewNav(siteName, policy, u, currentPath)}
	if v.ShowDashboard {
		v.ActiveTab = "dashboard"
	}

	for id, e := range entries {
		v.Explorations = append(v.Explorations, ExplorationRow{
			ID:       id,
			Title:    e.Title,
			Category: e.Category,
			Status:   string(e.Rights.Status),
		})
	}
	sort.Slice(v.Explorations, func(i, j int) bool {
		if v.Explorations[i].Title != v.Explorations[j].Title {
			return v.Explorations[i].Title < v.Explorations[j].Title
		}
		return v.Explorations[i].ID < v.Explorations[j].ID
	})
	return v
}

type LoginView struct {
	Nav
	ReturnURL     string
	GoogleEnabled bool
	Error         string
}

type ProfileView struct {
	Nav
	Email    string
	IsEditor bool
	IsAdmin  bool
}

func RenderHome(w io.Writer, v HomeView) error {
	return Templates().ExecuteTemplate(w, "home.html", v)
}

func RenderLogin(w io.Writer, v LoginView) error {
	return Templates().ExecuteTemplate(w, "login.html", v)
}

func RenderProfile(w io.Writer, v ProfileView) error {
	return Templates().ExecuteTemplate(w, "profile.html", v)
}

type SignupView struct {
	Nav
	ReturnURL string
	Error     string
}

func RenderSignup(w io.Writer, v SignupView) error {
	return Templates().ExecuteTemplate(w, "signup.html", v)
}
