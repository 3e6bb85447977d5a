package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/types"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if claims, ok := args.Get(0).(*types.TokenClaims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

type stubUsers map[uuid.UUID]*models.User

func (s stubUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, types.NotFoundf("user %s", id)
}

func whoAmI(c *gin.Context) {
	id, ok := CurrentUserID(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.String())
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	v := new(mockValidator)
	v.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID, Username: "alice", Role: models.RoleUser}, nil)
	v.On("ValidateToken", "bad").Return(nil, errors.New("token is expired"))

	router := gin.New()
	router.GET("/me", AuthMiddleware(v), whoAmI)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer good", http.StatusOK, userID.String()},
		{"missing header", "", http.StatusUnauthorized, `{"error":"missing authorization header"}`},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, `{"error":"invalid authorization header format"}`},
		{"empty token", "Bearer ", http.StatusUnauthorized, `{"error":"invalid authorization header format"}`},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, `{"error":"invalid or expired token"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, rr.Body.String())
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	v := new(mockValidator)
	v.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID}, nil)
	v.On("ValidateToken", "bad").Return(nil, errors.New("signature is invalid"))

	router := gin.New()
	router.GET("/recipes", OptionalAuth(v), whoAmI)

	for header, want := range map[string]string{
		"":           "anonymous",
		"Bearer bad": "anonymous",
		"Bearer good": userID.String(),
	} {
		req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, want, rr.Body.String(), header)
	}
}

func TestAdminOnly(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	demoted := &models.User{ID: uuid.New(), Role: models.RoleUser}
	ghost := uuid.New()
	users := stubUsers{admin.ID: admin, demoted.ID: demoted}

	v := new(mockValidator)
	v.On("ValidateToken", "admin").Return(&types.TokenClaims{UserID: admin.ID, Role: models.RoleAdmin}, nil)
	v.On("ValidateToken", "demoted").Return(&types.TokenClaims{UserID: demoted.ID, Role: models.RoleAdmin}, nil)
	v.On("ValidateToken", "ghost").Return(&types.TokenClaims{UserID: ghost, Role: models.RoleAdmin}, nil)

	router := gin.New()
	router.GET("/admin/stats", AuthMiddleware(v), AdminOnly(users), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/no-auth", AdminOnly(users), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for token, status := range map[string]int{
		"admin":   http.StatusOK,
		"demoted": http.StatusForbidden,
		"ghost":   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, status, rr.Code, token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/no-auth", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
