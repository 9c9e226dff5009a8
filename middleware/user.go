package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key carrying the caller's user id.
const UserIDKey = "userID"

// RequireUserID resolves the caller's user id from the X-User-ID header.
// Authentication proper is handled upstream; the API only needs to know
// which user's state to serve.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing X-User-ID header"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
