package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// RecipeHandler exposes recipe reads and owner mutations
type RecipeHandler struct {
	recipeService             service.IRecipeService
	authService               service.IAuthService
	recipeCreationLimiter     *middleware.RateLimiter
	recipeModificationLimiter *middleware.RateLimiter
}

// NewRecipeHandler creates a RecipeHandler; nil limiters disable rate limiting
func NewRecipeHandler(recipeService service.IRecipeService, authService service.IAuthService, creationLimiter, modificationLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:             recipeService,
		authService:               authService,
		recipeCreationLimiter:     creationLimiter,
		recipeModificationLimiter: modificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/ai", h.ListAIRecipes)
		recipes.GET("/my-recipes", auth, h.MyRecipes)
		recipes.GET("/:id", middleware.OptionalAuth(h.authService), h.GetRecipe)

		recipes.POST("", auth, h.recipeCreationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.POST("/ai/save", auth, h.recipeCreationLimiter.RateLimitMiddleware(), h.SaveAIRecipe)
		recipes.PUT("/:id", auth, h.recipeModificationLimiter.PerRecipeRateLimitMiddleware(), h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.recipeService.GetAllRecipes(c.Request.Context(), page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchRecipes matches the query against title and description. Both
// "query" and "q" are accepted.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		query = c.Query("q")
	}

	page, err := pageRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.recipeService.SearchRecipes(c.Request.Context(), query, page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) ListAIRecipes(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.recipeService.GetAIGeneratedRecipes(c.Request.Context(), page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	page, err := pageRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.recipeService.GetUserRecipes(c.Request.Context(), userID, page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), viewerID(c), recipeID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	req, image, closer, err := bindRecipe(c)
	if err != nil {
		c.Error(err)
		return
	}
	defer closeUpload(closer)

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, req, image)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// SaveAIRecipe stores a recipe produced by the prediction service
func (h *RecipeHandler) SaveAIRecipe(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req types.RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	recipe, err := h.recipeService.SaveAIGeneratedRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	recipeID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	req, image, closer, err := bindRecipe(c)
	if err != nil {
		c.Error(err)
		return
	}
	defer closeUpload(closer)

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, recipeID, req, image)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	recipeID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, recipeID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
