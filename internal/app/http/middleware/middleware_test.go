package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"learning-app/internal/testkit"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	u := CurrentUser(c)
	if u == nil {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, u.Email)
}

func TestLoadSession(t *testing.T) {
	db := testkit.NewDB(t)
	u := testkit.CreateUser(t, db, "reader@example.com")

	r := gin.New()
	r.Use(LoadSession(db, testkit.Secret))
	r.GET("/whoami", whoAmI)

	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"no session", func(*http.Request) {}, "anonymous"},
		{"cookie", func(req *http.Request) { req.AddCookie(testkit.SessionCookie(t, u)) }, "reader@example.com"},
		{"bearer", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+testkit.SessionCookie(t, u).Value)
		}, "reader@example.com"},
		{"garbage cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-token"})
		}, "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if got := w.Body.String(); got != tt.want {
				t.Fatalf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadSessionDeletedUserIsAnonymous(t *testing.T) {
	db := testkit.NewDB(t)
	u := testkit.CreateUser(t, db, "gone@example.com")
	cookie := testkit.SessionCookie(t, u)
	if err := db.Delete(&u).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	r := gin.New()
	r.Use(LoadSession(db, testkit.Secret))
	r.GET("/whoami", whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Body.String(); got != "anonymous" {
		t.Fatalf("body = %q, want anonymous", got)
	}
}

func TestLoadSessionDatabaseFailure(t *testing.T) {
	db := testkit.NewDB(t)
	u := testkit.CreateUser(t, db, "reader@example.com")
	cookie := testkit.SessionCookie(t, u)

	r := gin.New()
	r.Use(LoadSession(db, testkit.Secret))
	r.GET("/auth", RequireAuth(), whoAmI)
	r.GET("/whoami", whoAmI)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	// no session means no lookup
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Fatalf("anonymous: status %d body %q", w.Code, w.Body.String())
	}
}

func TestGuards(t *testing.T) {
	db := testkit.NewDB(t)
	reader := testkit.CreateUser(t, db, "reader@example.com")
	editor := testkit.RegisterEditor(t, db, "editor@example.com", "editor")
	admin := testkit.RegisterEditor(t, db, "admin@example.com", "boss")
	testkit.SetAdmins(t, db, "admin@example.com")

	r := gin.New()
	r.Use(LoadSession(db, testkit.Secret))
	r.GET("/auth", RequireAuth(), whoAmI)
	r.GET("/editor", RequireEditor(), whoAmI)
	r.GET("/admin", RequireRole("admin"), whoAmI)

	tests := []struct {
		path   string
		cookie *http.Cookie
		want   int
	}{
		{"/auth", nil, http.StatusUnauthorized},
		{"/auth", testkit.SessionCookie(t, reader), http.StatusOK},
		{"/editor", nil, http.StatusUnauthorized},
		{"/editor", testkit.SessionCookie(t, reader), http.StatusForbidden},
		{"/editor", testkit.SessionCookie(t, editor), http.StatusOK},
		{"/admin", nil, http.StatusUnauthorized},
		{"/admin", testkit.SessionCookie(t, editor), http.StatusForbidden},
		{"/admin", testkit.SessionCookie(t, admin), http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.cookie != nil {
			req.AddCookie(tt.cookie)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s (cookie=%v): status = %d, want %d", tt.path, tt.cookie != nil, w.Code, tt.want)
		}
	}
}

func TestSanitizeAndCleanInput(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", b)
	})

	body := `{"title":"<script>alert(1)</script>Fractions & more","password":"p<a>ss","count":3}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["title"] != "Fractions & more" {
		t.Fatalf("title = %q, want %q", got["title"], "Fractions & more")
	}
	if got["password"] != "p<a>ss" {
		t.Fatalf("password = %q, want it untouched", got["password"])
	}
}

func TestSanitizeRejectsMalformedJSON(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSanitizeEntityEncodedMarkup(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, body)
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"encoded script", `&lt;script&gt;alert(1)&lt;/script&gt;`, ""},
		{"double encoded tag", `&amp;lt;b&amp;gt;bold&amp;lt;/b&amp;gt;`, "bold"},
		{"encoded tag around text", `Intro &lt;img src=x onerror=alert(1)&gt;`, "Intro "},
		{"plain ampersand", `Fractions & more`, "Fractions & more"},
		{"less than", `1 < 2`, "1 < 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(map[string]string{"title": tt.in})
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(string(payload)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var got map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode %s: %v", w.Body, err)
			}
			if got["title"] != tt.want {
				t.Fatalf("title = %q, want %q", got["title"], tt.want)
			}
		})
	}
}

func TestSanitizeFormBodies(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, c.PostForm("title")+"|"+c.PostForm("password"))
	})

	form := url.Values{
		"title":    {"<b>Fractions</b> &lt;script&gt;x&lt;/script&gt;"},
		"password": {"p<a>ss"},
	}
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got, want := w.Body.String(), "Fractions |p<a>ss"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}
}

func TestSanitizeSkipsOtherBodies(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(b))
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("<b>raw</b>"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "<b>raw</b>" {
		t.Fatalf("body = %q, want it untouched", w.Body.String())
	}
}
