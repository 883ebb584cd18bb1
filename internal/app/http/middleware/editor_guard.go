package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireEditor lets through only users who completed editor registration.
func RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to access this resource."})
			return
		}
		if !u.IsEditor() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You must register as an editor first."})
			return
		}
		c.Next()
	}
}
