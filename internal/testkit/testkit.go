// Package testkit builds fresh, isolated application state for tests.
package testkit

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"learning-app/database"
	"learning-app/internal/domain/explorations"
	"learning-app/internal/domain/users"
	"learning-app/internal/infra/session"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Secret signs session cookies in tests.
var Secret = []byte("testkit-session-secret")

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testkit_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// CreateUser stores a verified, logged-in-capable user that is not an editor.
func CreateUser(t testing.TB, db *gorm.DB, email string) users.User {
	t.Helper()
	u := users.User{
		Email:        strings.ToLower(email),
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleUser,
		IsVerified:   true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// RegisterEditor stores a user and completes editor registration with username.
func RegisterEditor(t testing.TB, db *gorm.DB, email, username string) users.User {
	t.Helper()
	u := CreateUser(t, db, email)
	if err := users.RegisterEditor(db, &u, username, true); err != nil {
		t.Fatalf("register editor %s: %v", email, err)
	}
	return u
}

func SetAdmins(t testing.TB, db *gorm.DB, emails ...string) {
	t.Helper()
	if err := users.SetAdmins(db, emails); err != nil {
		t.Fatalf("set admins: %v", err)
	}
}

// SaveNewExploration stores a private exploration owned by ownerID.
func SaveNewExploration(t testing.TB, db *gorm.DB, id string, ownerID uint, title string) explorations.Exploration {
	t.Helper()
	exp := explorations.Exploration{ID: id, Title: title, Category: "Test"}
	if err := explorations.SaveNew(db, &exp, ownerID); err != nil {
		t.Fatalf("save exploration %s: %v", id, err)
	}
	return exp
}

// SessionCookie returns a cookie that logs u in.
func SessionCookie(t testing.TB, u users.User) *http.Cookie {
	t.Helper()
	tok, err := session.Issue(Secret, u, time.Hour)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: tok}
}
