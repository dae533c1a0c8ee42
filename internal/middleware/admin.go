package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/openopps/openopps-api/internal/database"
	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/models"
)

// RequireAdmin checks that the authenticated user carries the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsAdmin {
			apierrors.Forbidden(c, "Administrator access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
