package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfgm/gfgm/backend/internal/testhelpers"
)

func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, id)
		c.Next()
	}
}

func TestIPRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := NewIPRateLimiter(ctx, 0.001, 2)
	router := gin.New()
	router.POST("/auth/login", limiter.LimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))

	limiter.evictIdle(0)
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
}

func TestNilRateLimiterAllowsEverything(t *testing.T) {
	var limiter *RateLimiter
	router := gin.New()
	router.POST("/ai/predict", limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ai/predict", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRedisRateLimiter(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "rate_limit:test"})
	userID := uuid.New()

	router := gin.New()
	router.POST("/ai/predict", asUser(userID), limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.PUT("/recipes/:id", asUser(userID), limiter.PerRecipeRateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(method, path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
		return rr
	}

	first := send(http.MethodPost, "/ai/predict")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	remaining, _, err := limiter.GetRemainingRequests(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/ai/predict").Code)
	blocked := send(http.MethodPost, "/ai/predict")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	reset, err := strconv.ParseInt(blocked.Header().Get("X-RateLimit-Reset"), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, reset, time.Now().Unix()-1)

	// per-recipe counters are independent of the per-user counter
	assert.Equal(t, http.StatusOK, send(http.MethodPut, "/recipes/r1").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPut, "/recipes/r1").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPut, "/recipes/r1").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPut, "/recipes/r2").Code)
}
