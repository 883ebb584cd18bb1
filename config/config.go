package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBURL      string
	JWTSecret  string
	CORSOrigin string
	BaseURL    string
	SiteName   string

	SessionTTL  time.Duration
	AdminEmails []string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// LoadEnv reads .env (if present) and the process environment.
func LoadEnv() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any env-style lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}
	must := func(key string) (string, error) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return v, nil
	}

	var c Config
	var err error

	if c.DBURL, err = must("DB_URL"); err != nil {
		return Config{}, err
	}
	if c.JWTSecret, err = must("JWT_SECRET"); err != nil {
		return Config{}, err
	}

	c.Port = get("PORT", "8080")
	c.CORSOrigin = get("CORS_ORIGIN", "")
	c.BaseURL = strings.TrimRight(get("BASE_URL", "http://localhost:8080"), "/")
	c.SiteName = get("SITE_NAME", "Oppia")

	c.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	for _, e := range strings.Split(get("ADMIN_EMAILS", ""), ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			c.AdminEmails = append(c.AdminEmails, e)
		}
	}

	c.SMTPHost = get("SMTP_HOST", "")
	c.SMTPPort = get("SMTP_PORT", "587")
	c.SMTPFrom = get("SMTP_FROM", "")
	c.SMTPPassword = get("SMTP_PASSWORD", "")

	c.GoogleClientID = get("GOOGLE_CLIENT_ID", "")
	c.GoogleClientSecret = get("GOOGLE_CLIENT_SECRET", "")
	c.GoogleRedirectURL = get("GOOGLE_REDIRECT_URL", "")

	return c, nil
}
