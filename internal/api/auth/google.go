package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"learning-app/internal/domain/users"
	"learning-app/internal/infra/session"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	googleIssuer      = "https://accounts.google.com"
	stateCookie       = "oauth_state"
	returnCookie      = "oauth_return"
	oauthCookieMaxAge = 300
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (g *GoogleConfig) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	if h.Google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not enabled"})
		return
	}
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	secure := strings.HasPrefix(h.BaseURL, "https://")
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, oauthCookieMaxAge, "/", "", secure, true)
	c.SetCookie(returnCookie, session.SafeReturnPath(c.Query(session.ReturnKey)), oauthCookieMaxAge, "/", "", secure, true)

	c.Redirect(http.StatusFound, h.Google.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not enabled"})
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	ctx := c.Request.Context()
	tok, err := h.Google.oauth2Config().Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		h.Log.Error("init google oidc provider", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to init google oidc provider"})
		return
	}
	idToken, err := provider.Verifier(&oidc.Config{ClientID: h.Google.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id_token"})
		return
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to decode token claims"})
		return
	}

	user, err := findOrCreateGoogleUser(h.DB.WithContext(ctx), claims)
	if err != nil {
		h.Log.Error("google user", "email", claims.Email, "err", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.setSessionCookie(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	returnURL := "/"
	if v, err := c.Cookie(returnCookie); err == nil {
		returnURL = session.SafeReturnPath(v)
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	c.SetCookie(returnCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, returnURL)
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

var errGoogleClaims = errors.New("google account has no verified email")

func findOrCreateGoogleUser(db *gorm.DB, gc googleIDClaims) (users.User, error) {
	if gc.Sub == "" || gc.Email == "" || !gc.EmailVerified {
		return users.User{}, errGoogleClaims
	}
	email := strings.ToLower(gc.Email)

	var user users.User
	if err := db.Where("google_sub = ?", gc.Sub).First(&user).Error; err == nil {
		return user, nil
	}

	// Link an existing local account with the same email.
	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		if user.GoogleSub == nil {
			sub := gc.Sub
			user.GoogleSub = &sub
			user.IsVerified = true
			if err := db.Save(&user).Error; err != nil {
				return users.User{}, err
			}
		}
		return user, nil
	}

	sub := gc.Sub
	user = users.User{
		Email:        email,
		AuthProvider: users.ProviderGoogle,
		GoogleSub:    &sub,
		Role:         users.RoleUser,
		IsVerified:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}
