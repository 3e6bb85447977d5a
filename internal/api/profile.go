package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gfgm/gfgm/backend/internal/mapper"
	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

type ProfileHandler struct {
	userService service.IUserService
	authService service.IAuthService
}

func NewProfileHandler(userService service.IUserService, authService service.IAuthService) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		authService: authService,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/users/profile")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.PUT("/picture", h.UpdateProfilePicture)
		profile.PUT("/password", h.UpdatePassword)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToUserResponse(user))
}

// UpdateProfile applies a partial update; fields absent from the body are untouched
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req types.UserUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfilePicture replaces the picture with the multipart "image" file
func (h *ProfileHandler) UpdateProfilePicture(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	image, closer, err := formImage(c, "image")
	if err != nil {
		c.Error(err)
		return
	}
	if image == nil {
		c.Error(types.Validationf("image file is required"))
		return
	}
	defer closeUpload(closer)

	user, err := h.userService.UpdateProfilePicture(c.Request.Context(), userID, image)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToUserResponse(user))
}

func (h *ProfileHandler) UpdatePassword(c *gin.Context) {
	userID, err := actorID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req types.PasswordUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), userID, &req); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
