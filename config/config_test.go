package config

import (
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	c, err := FromLookup(lookupFrom(map[string]string{
		"DB_URL":     "postgres://localhost/app",
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "8080" {
		t.Fatalf("Port = %q, want %q", c.Port, "8080")
	}
	if c.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %v, want 24h", c.SessionTTL)
	}
	if c.GoogleEnabled() {
		t.Fatal("expected google sign-in to be disabled")
	}
	if len(c.AdminEmails) != 0 {
		t.Fatalf("AdminEmails = %v, want empty", c.AdminEmails)
	}
}

func TestFromLookupMissingRequired(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{"DB_URL": "x"}))
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("error = %q, want it to name JWT_SECRET", err)
	}
}

func TestFromLookupAdminEmails(t *testing.T) {
	c, err := FromLookup(lookupFrom(map[string]string{
		"DB_URL":       "x",
		"JWT_SECRET":   "y",
		"ADMIN_EMAILS": " Admin@Example.com, ,ops@example.com",
		"BASE_URL":     "https://learn.example.com/",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.AdminEmails) != 2 || c.AdminEmails[0] != "admin@example.com" || c.AdminEmails[1] != "ops@example.com" {
		t.Fatalf("AdminEmails = %v", c.AdminEmails)
	}
	if c.BaseURL != "https://learn.example.com" {
		t.Fatalf("BaseURL = %q", c.BaseURL)
	}
}

func TestFromLookupBadSessionTTL(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"DB_URL":      "x",
		"JWT_SECRET":  "y",
		"SESSION_TTL": "forever",
	}))
	if err == nil {
		t.Fatal("expected error for bad SESSION_TTL")
	}
}
