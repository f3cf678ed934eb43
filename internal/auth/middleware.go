package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireAuth. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// RequireAuth returns a middleware that validates the Bearer access
// token and sets the current user ID in context. 401 otherwise.
func RequireAuth(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, err := tokens.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
