package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ===== MIDDLEWARE =====

// UserContextMiddleware extracts the caller identity forwarded by the API
// gateway. Authentication itself happens upstream; this service only trusts
// the forwarded headers.
func UserContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if idHeader := c.GetHeader("X-User-ID"); idHeader != "" {
			if id, err := strconv.ParseUint(idHeader, 10, 32); err == nil {
				c.Set("user_id", uint(id))
			}
		}
		if role := c.GetHeader("X-User-Role"); role != "" {
			c.Set("user_role", role)
		}
		c.Next()
	}
}

// AdminMiddleware rejects requests whose forwarded role is not admin.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Admin access required",
			})
			return
		}
		c.Next()
	}
}
