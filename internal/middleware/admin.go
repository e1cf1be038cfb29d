package middleware

import (
	"net/http"

	"scrapto/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates the back-office routes. Runs after AuthRequired, so a
// missing role means a broken middleware chain, not an anonymous caller.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
