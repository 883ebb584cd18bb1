package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"learning-app/internal/domain/users"
	"learning-app/internal/infra/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const userKey = "user"

// LoadSession resolves the session cookie (or a Bearer token) to a user.
// Requests without a valid session continue anonymously. A token for a deleted
// user is anonymous too; any other lookup failure aborts with 500.
func LoadSession(db *gorm.DB, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		userID, err := session.Parse(secret, tokenString)
		if err != nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		user, err := users.FindByID(db.WithContext(ctx), userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Next()
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "load session user", "user_id", userID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load session"})
			return
		}

		c.Set(userKey, &user)
		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("role", user.Role)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if tok := strings.TrimPrefix(authHeader, "Bearer "); tok != authHeader {
			return strings.TrimSpace(tok)
		}
	}
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *users.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*users.User)
	return u
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to access this resource."})
			return
		}
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to access this resource."})
			return
		}
		if u.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}
