package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClaimsVerifier validates a raw bearer token and returns its claims.
// Satisfied by a closure over tokens.Verify.
type ClaimsVerifier func(raw string) (map[string]interface{}, error)

// Auth returns a Gin middleware that verifies Bearer tokens and stores the
// claims map in the request context under "claims".
func Auth(verify ClaimsVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}
		claims, err := verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// Subject extracts the authenticated subject from the context, "" when the
// request is unauthenticated.
func Subject(c *gin.Context) string {
	v, ok := c.Get("claims")
	if !ok {
		return ""
	}
	claims, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
