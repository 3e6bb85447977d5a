package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/middleware"
)

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, validator middleware.TokenValidator, limits RateLimiters) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(validator))
	{
		rateLimits.GET("/recipe-creation", func(c *gin.Context) {
			userID, err := actorID(c)
			if err != nil {
				c.Error(err)
				return
			}
			rateLimitStatus(c, limits.RecipeCreation, userID.String(), nil)
		})

		rateLimits.GET("/recipe-modification/:recipe_id", func(c *gin.Context) {
			userID, err := actorID(c)
			if err != nil {
				c.Error(err)
				return
			}
			recipeID, err := pathID(c, "recipe_id")
			if err != nil {
				c.Error(err)
				return
			}
			key := middleware.PerRecipeKey(userID.String(), recipeID.String())
			rateLimitStatus(c, limits.RecipeModification, key, gin.H{"recipe_id": recipeID})
		})

		rateLimits.GET("/ai-prediction", func(c *gin.Context) {
			userID, err := actorID(c)
			if err != nil {
				c.Error(err)
				return
			}
			rateLimitStatus(c, limits.AIPrediction, userID.String(), nil)
		})
	}
}

func rateLimitStatus(c *gin.Context, limiter *middleware.RateLimiter, key string, extra gin.H) {
	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}

	if limiter == nil {
		body["enabled"] = false
		c.JSON(http.StatusOK, body)
		return
	}

	remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), key)
	if err != nil {
		logrus.WithError(err).Warn("failed to read rate limit status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
		return
	}

	cfg := limiter.Config()
	body["enabled"] = true
	body["limit"] = cfg.Limit
	body["remaining"] = remaining
	body["reset_time"] = resetTime.Unix()
	body["window"] = cfg.Window.String()
	c.JSON(http.StatusOK, body)
}
