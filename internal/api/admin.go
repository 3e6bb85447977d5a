package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/mapper"
	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

const defaultRecentUsers = 5

// AdminHandler serves the moderation endpoints. Every route requires a
// stored ADMIN role.
type AdminHandler struct {
	userService   service.IUserService
	recipeService service.IRecipeService
	statsService  service.IStatsService
	authService   service.IAuthService
}

func NewAdminHandler(userService service.IUserService, recipeService service.IRecipeService, statsService service.IStatsService, authService service.IAuthService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		recipeService: recipeService,
		statsService:  statsService,
		authService:   authService,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.authService), middleware.AdminOnly(h.userService))
	{
		admin.GET("/stats", h.GetStats)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/recent", h.RecentUsers)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.PUT("/users/:id/role", h.UpdateUserRole)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/recipes", h.ListRecipes)
		admin.PUT("/recipes/:id", h.UpdateRecipe)
		admin.DELETE("/recipes/:id", h.DeleteRecipe)
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) RecentUsers(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.Error(err)
		return
	}
	if limit == 0 {
		limit = defaultRecentUsers
	}

	users, err := h.userService.RecentUsers(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	adminID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}
	userID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req types.AdminUserUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.userService.AdminUpdateUser(c.Request.Context(), adminID, userID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateUserRole takes the role from the "role" query parameter or a JSON body
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	role := models.Role(c.Query("role"))
	if role == "" {
		var body struct {
			Role models.Role `json:"role"`
		}
		if err := bindJSON(c, &body); err != nil {
			c.Error(err)
			return
		}
		role = body.Role
	}

	user, err := h.userService.UpdateUserRole(c.Request.Context(), userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "role": role}).Info("user role changed")
	c.JSON(http.StatusOK, mapper.ToUserResponse(user))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	h.statsService.Invalidate(c.Request.Context())

	logrus.WithField("user_id", userID).Info("user deleted by admin")
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListRecipes(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	recipes, err := h.recipeService.ListAllRecipes(c.Request.Context(), page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *AdminHandler) UpdateRecipe(c *gin.Context) {
	recipeID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req types.AdminRecipeUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	recipe, err := h.recipeService.AdminUpdateRecipe(c.Request.Context(), recipeID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *AdminHandler) DeleteRecipe(c *gin.Context) {
	recipeID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.recipeService.AdminDeleteRecipe(c.Request.Context(), recipeID); err != nil {
		c.Error(err)
		return
	}
	h.statsService.Invalidate(c.Request.Context())

	logrus.WithField("recipe_id", recipeID).Info("recipe deleted by admin")
	c.Status(http.StatusNoContent)
}
