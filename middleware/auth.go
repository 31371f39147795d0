// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkbook/utils"
)

// Context keys for the caller identity injected by JWTAuthMiddleware.
const (
	ContextSubjectKey = "subjectID"
	ContextRoleKey    = "role"
)

// JWTAuthMiddleware extracts the caller identity from the bearer token and
// injects it into the request context. Who may do what with that identity
// is decided by the caller's systems; handlers here only read it. When
// requiredRole is non-empty the request is rejected unless the token
// carries that role.
func JWTAuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.IdentityFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if requiredRole != "" && role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}

		c.Set(ContextSubjectKey, subject)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// CallerID returns the authenticated subject id from the context.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextSubjectKey)
}
