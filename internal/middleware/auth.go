package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/relay"
)

// AuthMiddleware resolves the bearer token through the credential
// gateway and stashes the caller's identity in the context. Both
// "Bearer <token>" and a raw token header are accepted; the web client
// sends the raw form.
func AuthMiddleware(gateway relay.CredentialGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromHeader(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		user, err := gateway.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("email", user.Email)
		c.Set("username", user.Username)
		c.Next()
	}
}

// TokenFromHeader extracts the bearer token from the Authorization
// header, with or without the "Bearer" scheme prefix.
func TokenFromHeader(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}
