package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyContextKey = "openaiAPIKey"

// APIKeyMiddleware pulls the caller-supplied OpenAI key out of the
// Authorization header. The key is never validated or stored, only passed
// through to the completion request; its absence is reported by the
// handler as a validation warning, not here.
func APIKeyMiddleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
				c.Abort()
				return
			}
			c.Set(apiKeyContextKey, parts[1])
		}

		c.Next()
	})
}

// APIKey returns the pass-through key for the current request, if any.
func APIKey(c *gin.Context) string {
	return c.GetString(apiKeyContextKey)
}
