package middleware

import (
	"net/http"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		userRole := CurrentRole(c)
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// InstructorMiddleware admits the roles that may log lessons.
func InstructorMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin, model.RoleInstructor)
}

// BookkeeperMiddleware admits the roles that may book expenses.
func BookkeeperMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin, model.RoleStaff)
}
