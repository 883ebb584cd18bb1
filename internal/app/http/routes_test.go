package routes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"learning-app/config"
	"learning-app/internal/infra/session"
	"learning-app/internal/testkit"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type captureMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *captureMailer) SendVerificationEmail(to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links == nil {
		m.links = map[string]string{}
	}
	m.links[to] = link
	return nil
}

func (m *captureMailer) linkFor(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[to]
}

type client struct {
	t     *testing.T
	r     http.Handler
	token string
}

func (cl *client) do(method, path, body string) *httptest.ResponseRecorder {
	cl.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	w := httptest.NewRecorder()
	cl.r.ServeHTTP(w, req)
	return w
}

func (cl *client) expect(method, path, body string, status int) *httptest.ResponseRecorder {
	cl.t.Helper()
	w := cl.do(method, path, body)
	if w.Code != status {
		cl.t.Fatalf("%s %s: status = %d, want %d; body %s", method, path, w.Code, status, w.Body)
	}
	return w
}

func newApp(t *testing.T) (*gin.Engine, *captureMailer) {
	t.Helper()
	db := testkit.NewDB(t)
	mailer := &captureMailer{}

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB: db,
		Config: config.Config{
			JWTSecret:  string(testkit.Secret),
			BaseURL:    "http://localhost:8080",
			SiteName:   "Oppia",
			SessionTTL: time.Hour,
		},
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Mailer: mailer,
	})
	return r, mailer
}

func TestHealth(t *testing.T) {
	r, _ := newApp(t)
	cl := &client{t: t, r: r}
	cl.expect(http.MethodGet, "/health", "", http.StatusOK)
}

func TestAnonymousSeesSplashAndCannotReachDashboard(t *testing.T) {
	r, _ := newApp(t)
	cl := &client{t: t, r: r}

	body := cl.expect(http.MethodGet, "/", "", http.StatusOK).Body.String()
	if !strings.Contains(body, "Bite-sized learning journeys") || !strings.Contains(body, session.LoginURL("/")) {
		t.Fatal("anonymous home page should show the splash banner and login link")
	}
	cl.expect(http.MethodGet, "/dashboardhandler/data", "", http.StatusUnauthorized)
	cl.expect(http.MethodPost, "/create", `{"title":"T"}`, http.StatusUnauthorized)
	cl.expect(http.MethodGet, "/admin/users", "", http.StatusUnauthorized)
}

func TestRegisterSignupCreateFlow(t *testing.T) {
	r, mailer := newApp(t)
	cl := &client{t: t, r: r}

	cl.expect(http.MethodPost, "/register", `{"email":"learner@example.com","password":"secret123"}`, http.StatusCreated)
	cl.expect(http.MethodPost, "/login", `{"email":"learner@example.com","password":"secret123"}`, http.StatusForbidden)

	link, err := url.Parse(mailer.linkFor("learner@example.com"))
	if err != nil || link.Query().Get("token") == "" {
		t.Fatalf("verification link = %q", mailer.linkFor("learner@example.com"))
	}
	w := cl.expect(http.MethodGet, link.RequestURI(), "", http.StatusFound)
	if loc := w.Header().Get("Location"); loc != session.LoginURL("/") {
		t.Fatalf("verify redirect = %q", loc)
	}

	w = cl.expect(http.MethodPost, "/login", `{"email":"learner@example.com","password":"secret123"}`, http.StatusOK)
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("login response %s: %v", w.Body, err)
	}
	cl.token = login.Token

	// logged in, not yet an editor
	body := cl.expect(http.MethodGet, "/", "", http.StatusOK).Body.String()
	if !strings.Contains(body, "Create Exploration") || strings.Contains(body, "Dashboard") {
		t.Fatal("reader home page should offer Create Exploration without a dashboard")
	}
	cl.expect(http.MethodPost, "/create", `{"title":"T"}`, http.StatusForbidden)

	cl.expect(http.MethodPost, "/signup", `{"username":"learner","agreed_to_terms":true}`, http.StatusOK)
	cl.expect(http.MethodPost, "/signup", `{"username":"learner2","agreed_to_terms":true}`, http.StatusConflict)

	w = cl.expect(http.MethodPost, "/create", `{"title":"Fractions <b>basics</b>","category":"Math"}`, http.StatusCreated)
	var created struct {
		ExplorationID string `json:"exploration_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	w = cl.expect(http.MethodGet, "/dashboardhandler/data", "", http.StatusOK)
	var dash struct {
		Explorations map[string]struct {
			Title  string `json:"title"`
			Rights struct {
				Status string `json:"status"`
			} `json:"rights"`
		} `json:"explorations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	e, ok := dash.Explorations[created.ExplorationID]
	if !ok {
		t.Fatalf("dashboard = %s, want %s listed", w.Body, created.ExplorationID)
	}
	if e.Title != "Fractions basics" || e.Rights.Status != "private" {
		t.Fatalf("entry = %+v", e)
	}

	body = cl.expect(http.MethodGet, "/", "", http.StatusOK).Body.String()
	if !strings.Contains(body, "Dashboard") || !strings.Contains(body, "Fractions basics") {
		t.Fatal("editor home page should list the new exploration")
	}

	w = cl.expect(http.MethodGet, "/logout?return_url=%2F", "", http.StatusFound)
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("logout redirect = %q", loc)
	}
}
