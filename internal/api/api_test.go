package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gfgm/gfgm/backend/internal/metrics"
	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/mocks"
	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/testhelpers"
)

const testJWTSecret = "api-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI wires the real services on SQLite; the AI proxy and the stats
// service are mocks.
type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	store  *testhelpers.MemoryImageStore
	ai     *mocks.MockAIService
	stats  *mocks.MockStatsService
}

func setupAPI(t *testing.T) *testAPI {
	return setupAPIWithLimits(t, RateLimiters{})
}

func setupAPIWithLimits(t *testing.T, limits RateLimiters) *testAPI {
	t.Helper()

	db := testhelpers.SetupTestDB(t)
	store := testhelpers.NewMemoryImageStore()
	m := metrics.New()
	auth := service.NewAuthService(db, testJWTSecret, time.Hour)

	api := &testAPI{
		router: gin.New(),
		db:     db,
		auth:   auth,
		store:  store,
		ai:     new(mocks.MockAIService),
		stats:  new(mocks.MockStatsService),
	}

	api.router.Use(middleware.ErrorHandler())
	RegisterRoutes(api.router, Dependencies{
		Auth:    auth,
		Users:   service.NewUserService(db, auth, store, m),
		Recipes: service.NewRecipeService(db, store, m),
		AI:      api.ai,
		Stats:   api.stats,
		Images:  store,
		Limits:  limits,
	})
	return api
}

func (a *testAPI) user(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateTestUser(t, a.db, username, role)
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, token)
}

func (a *testAPI) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[middleware.ErrorResponse](t, rr).Error
}

func TestHealthCheck(t *testing.T) {
	api := setupAPI(t)

	for _, path := range []string{"/health", "/api/health"} {
		rr := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)

		body := decode[map[string]string](t, rr)
		assert.Equal(t, "healthy", body["status"])
	}
}

func TestUploadsNotFound(t *testing.T) {
	api := setupAPI(t)

	rr := api.do(t, http.MethodGet, "/uploads/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRateLimitStatusWithoutRedis(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "quota", models.RoleUser)

	rr := api.do(t, http.MethodGet, "/api/v1/rate-limits/recipe-creation", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, decode[map[string]any](t, rr)["enabled"])

	rr = api.do(t, http.MethodGet, "/api/v1/rate-limits/recipe-modification/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/v1/rate-limits/ai-prediction", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRateLimitStatusWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	api := setupAPIWithLimits(t, RateLimiters{
		RecipeCreation: middleware.NewRecipeCreationRateLimiter(client),
	})
	_, token := api.user(t, "limited", models.RoleUser)

	rr := api.do(t, http.MethodPost, "/api/v1/recipes", token, testhelpers.RecipeRequest("Waffles"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "20", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "19", rr.Header().Get("X-RateLimit-Remaining"))

	rr = api.do(t, http.MethodGet, "/api/v1/rate-limits/recipe-creation", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, true, body["enabled"])
	assert.EqualValues(t, 20, body["limit"])
	assert.EqualValues(t, 19, body["remaining"])
	assert.Equal(t, "1h0m0s", body["window"])
}
