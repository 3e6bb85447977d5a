package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/mapper"
	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// AuthHandler handles registration, login and the current-user lookup
type AuthHandler struct {
	authService service.IAuthService
	userService service.IUserService
	ipLimiter   *middleware.IPRateLimiter
}

// NewAuthHandler creates a new AuthHandler. A nil ipLimiter disables throttling.
func NewAuthHandler(authService service.IAuthService, userService service.IUserService, ipLimiter *middleware.IPRateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		ipLimiter:   ipLimiter,
	}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	if h.ipLimiter != nil {
		auth.POST("/register", h.ipLimiter.LimitMiddleware(), h.Register)
		auth.POST("/login", h.ipLimiter.LimitMiddleware(), h.Login)
	} else {
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
	auth.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
}

// Register creates an account and logs the new user in
func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.authService.IssueAuthResponse(user)
	if err != nil {
		c.Error(err)
		return
	}

	logrus.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, resp)
}

// Login exchanges a username and password for a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
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
