// Package middleware carries the cross-cutting gin middleware: bearer
// auth, request logging, metrics, CORS, and request IDs.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dentara/api/pkg/auth"
)

const (
	// CtxUserID is the authenticated caller's subject claim.
	CtxUserID = "user_id"
	// CtxAuthorization is the raw Authorization header, forwarded to the
	// platform so table access runs under the caller's own token.
	CtxAuthorization = "authorization"
)

// Auth requires a valid bearer token on every request. The token is only
// validated locally; authorization decisions stay with the platform's
// row-level security, which sees the same token.
func Auth(validator *auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := validator.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxAuthorization, header)
		c.Next()
	}
}

// UserID returns the authenticated caller id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// Authorization returns the caller's raw Authorization header.
func Authorization(c *gin.Context) string {
	return c.GetString(CtxAuthorization)
}
