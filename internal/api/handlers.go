package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/service"
)

// RateLimiters groups the optional request limiters. Nil Redis limiters
// disable the corresponding limit.
type RateLimiters struct {
	RecipeCreation     *middleware.RateLimiter
	RecipeModification *middleware.RateLimiter
	AIPrediction       *middleware.RateLimiter
	Auth               *middleware.IPRateLimiter
}

// Dependencies bundles the services the HTTP layer needs
type Dependencies struct {
	Auth    service.IAuthService
	Users   service.IUserService
	Recipes service.IRecipeService
	AI      service.IAIService
	Stats   service.IStatsService
	Images  service.ImageStore
	Limits  RateLimiters
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "GFGM API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	NewUploadHandler(deps.Images).RegisterRoutes(&router.RouterGroup)

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Auth, deps.Users, deps.Limits.Auth).RegisterRoutes(v1)
	NewRecipeHandler(deps.Recipes, deps.Auth, deps.Limits.RecipeCreation, deps.Limits.RecipeModification).RegisterRoutes(v1)
	NewProfileHandler(deps.Users, deps.Auth).RegisterRoutes(v1)
	NewAIHandler(deps.AI, deps.Auth, deps.Limits.AIPrediction).RegisterRoutes(v1)
	NewAdminHandler(deps.Users, deps.Recipes, deps.Stats, deps.Auth).RegisterRoutes(v1)
	RegisterRateLimitRoutes(v1, deps.Auth, deps.Limits)
}
