package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prateeks07/society-management-backend/internal/auth"
)

const (
	RoleOwner  = "owner"
	RoleStaff  = "staff"
	RoleTenant = "tenant"
)

// RBACMiddleware checks if the user has one of the allowed roles. Resource
// level scoping happens in the services; this is just the coarse route gate.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		user, ok := userVal.(auth.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user object"})
			return
		}

		for _, role := range allowedRoles {
			if user.Role.RoleName == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
