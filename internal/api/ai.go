package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

const maxPredictBodyBytes = 1 << 20

// AIHandler proxies prediction requests to the model service
type AIHandler struct {
	aiService   service.IAIService
	authService service.IAuthService
	limiter     *middleware.RateLimiter
}

func NewAIHandler(aiService service.IAIService, authService service.IAuthService, limiter *middleware.RateLimiter) *AIHandler {
	return &AIHandler{
		aiService:   aiService,
		authService: authService,
		limiter:     limiter,
	}
}

func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	ai.Use(middleware.AuthMiddleware(h.authService))
	{
		ai.POST("/predict", h.limiter.RateLimitMiddleware(), h.Predict)
	}
}

// Predict forwards the request body and relays the model's JSON response
func (h *AIHandler) Predict(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPredictBodyBytes))
	if err != nil {
		c.Error(types.Validationf("failed to read request body: %v", err))
		return
	}

	result, err := h.aiService.Predict(c.Request.Context(), json.RawMessage(body))
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}
