package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/havenspace/backend/internal/models"
	"github.com/havenspace/backend/internal/repository"
)

// ModeratorOnly restricts a route group to users with the moderator
// role. Must run after AuthMiddleware.
func ModeratorOnly(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		uid, ok := userID.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(uid)
		if err != nil || !user.IsModerator() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Moderator access required"})
			c.Abort()
			return
		}

		c.Set("is_moderator", true)
		c.Set("role", models.RoleModerator)
		c.Next()
	}
}
