package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// UserLookup loads the stored user for a role check
type UserLookup interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// AdminOnly checks the user's role from the database on each request, so a
// demoted administrator loses access even while holding an older token.
// It must run after AuthMiddleware.
func AdminOnly(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
				return
			}
			logrus.WithError(err).WithField("user_id", userID).Error("admin role lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}

		if !user.IsAdmin() {
			if currentRole(c) == models.RoleAdmin {
				logrus.WithField("user_id", userID).Info("rejected admin request from a demoted user")
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Set(ContextRole, user.Role)
		c.Next()
	}
}
