package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/utils"
)

// AuthMiddleware gates the admin routes behind a Bearer JWT minted by
// Login. The admin user is loaded and stored in the request context.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		adminID, err := utils.ParseAdminToken(parts[1], h.jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		adminUser, err := h.store.GetAdmin(adminID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not found"})
			c.Abort()
			return
		}

		c.Set("admin", *adminUser)
		c.Next()
	}
}
