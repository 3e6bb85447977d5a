package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/testhelpers"
	"github.com/gfgm/gfgm/backend/internal/types"
)

func TestRegister(t *testing.T) {
	api := setupAPI(t)

	rr := api.do(t, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Username:  "newcook",
		Email:     "newcook@example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "Cook",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decode[types.AuthResponse](t, rr)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "newcook", resp.User.Username)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotContains(t, rr.Body.String(), "password")

	claims, err := api.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterErrors(t *testing.T) {
	api := setupAPI(t)
	testhelpers.CreateTestUser(t, api.db, "taken", models.RoleUser)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{
			name:   "duplicate username",
			body:   types.RegisterRequest{Username: "taken", Email: "other@example.com", Password: "secret123"},
			status: http.StatusConflict,
		},
		{
			name:   "duplicate email",
			body:   types.RegisterRequest{Username: "fresh", Email: "taken@example.com", Password: "secret123"},
			status: http.StatusConflict,
		},
		{
			name:   "short password",
			body:   types.RegisterRequest{Username: "fresh", Email: "fresh@example.com", Password: "123"},
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed json",
			body:   `{"username":`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.NotEmpty(t, errorMessage(t, rr))
		})
	}
}

func TestLogin(t *testing.T) {
	api := setupAPI(t)
	user := testhelpers.CreateTestUser(t, api.db, "alice", models.RoleUser)

	rr := api.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Username: "alice", Password: testhelpers.TestPassword})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[types.AuthResponse](t, rr)
	assert.Equal(t, user.ID, resp.User.ID)

	rr = api.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMe(t *testing.T) {
	api := setupAPI(t)
	user, token := api.user(t, "bob", models.RoleUser)

	rr := api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[types.UserResponse](t, rr)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "bob", me.Username)

	rr = api.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	require.NoError(t, api.db.Delete(user).Error)
	rr = api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLoginIsThrottledPerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := setupAPIWithLimits(t, RateLimiters{Auth: middleware.NewIPRateLimiter(ctx, rate.Limit(0.001), 2)})
	testhelpers.CreateTestUser(t, api.db, "carol", models.RoleUser)

	login := func() int {
		rr := api.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Username: "carol", Password: "wrong"})
		return rr.Code
	}

	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusTooManyRequests, login())

	// /auth/me is not throttled
	_, token := api.user(t, "dave", models.RoleUser)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil).Code)
}
