package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/THURZIN2905/toperdido/utils"
)

const HeaderAdminKey = "X-Admin-Key"

// RequireAdminKey lets a request through only when X-Admin-Key matches the
// bcrypt hash. With no hash configured the admin routes are disabled.
func RequireAdminKey(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Admin access is not configured"})
			return
		}

		key := c.GetHeader(HeaderAdminKey)
		if key == "" || !utils.VerifyAdminKey(hash, key) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Missing or invalid admin key"})
			return
		}
		c.Next()
	}
}
