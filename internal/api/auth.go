package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Bearer-token auth for the protected solve endpoints. The token comes
// from API_AUTH_TOKEN; when it is unset every request passes, which is
// the intended dev-mode behavior. Public endpoints (health, constraint
// listing, the websocket stream) never go through this middleware.

// AuthMiddleware validates "Authorization: Bearer <token>" against the
// configured token using a constant-time comparison.
func AuthMiddleware() gin.HandlerFunc {
	token := os.Getenv("API_AUTH_TOKEN")

	if token == "" && os.Getenv("GIN_MODE") == "release" {
		// Fail loudly in production if auth is not configured.
		log.Println("[SECURITY WARNING] API_AUTH_TOKEN is not set in release mode; " +
			"solve endpoints are publicly accessible. Set API_AUTH_TOKEN to enforce authentication.")
	}

	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		scheme, supplied, found := strings.Cut(header, " ")
		switch {
		case header == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
				"hint":  "Use: Authorization: Bearer <API_AUTH_TOKEN>",
			})
			return
		case !found || scheme != "Bearer":
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid Authorization header format"})
			return
		case subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1:
			// Constant-time compare prevents timing-based token
			// enumeration.
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Next()
	}
}
