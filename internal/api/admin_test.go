package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/testhelpers"
	"github.com/gfgm/gfgm/backend/internal/types"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	api := setupAPI(t)
	_, userToken := api.user(t, "regular", models.RoleUser)

	paths := []string{"/api/v1/admin/stats", "/api/v1/admin/users", "/api/v1/admin/users/recent", "/api/v1/admin/recipes"}
	for _, path := range paths {
		rr := api.do(t, http.MethodGet, path, userToken, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code, path)

		rr = api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestAdminDemotionTakesEffectImmediately(t *testing.T) {
	api := setupAPI(t)
	admin, token := api.user(t, "boss", models.RoleAdmin)
	api.stats.On("GetStats", mock.Anything).Return(&types.StatsResponse{}, nil)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/v1/admin/stats", token, nil).Code)

	require.NoError(t, api.db.Model(admin).Update("role", models.RoleUser).Error)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, "/api/v1/admin/stats", token, nil).Code)
}

func TestAdminStats(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "boss", models.RoleAdmin)
	api.stats.On("GetStats", mock.Anything).Return(&types.StatsResponse{TotalUsers: 3, TotalRecipes: 7, AIGeneratedRecipes: 2}, nil).Once()
	api.stats.On("GetStats", mock.Anything).Return(nil, errors.New("redis: connection pool timeout"))

	rr := api.do(t, http.MethodGet, "/api/v1/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total_users":3,"total_recipes":7,"ai_generated_recipes":2}`, rr.Body.String())

	rr = api.do(t, http.MethodGet, "/api/v1/admin/stats", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rr))
}

func TestAdminListUsers(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "boss", models.RoleAdmin)
	testhelpers.CreateTestUser(t, api.db, "alpha", models.RoleUser)
	testhelpers.CreateTestUser(t, api.db, "beta", models.RoleUser)

	rr := api.do(t, http.MethodGet, "/api/v1/admin/users?sortBy=username&direction=asc", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	page := decode[types.Page[types.UserResponse]](t, rr)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "alpha", page.Content[0].Username)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = api.do(t, http.MethodGet, "/api/v1/admin/users/recent?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]types.UserResponse](t, rr), 2)

	rr = api.do(t, http.MethodGet, "/api/v1/admin/users/recent?limit=many", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminUpdateUser(t *testing.T) {
	api := setupAPI(t)
	admin, token := api.user(t, "boss", models.RoleAdmin)
	target := testhelpers.CreateTestUser(t, api.db, "target", models.RoleUser)

	rr := api.do(t, http.MethodPut, "/api/v1/admin/users/"+target.ID.String(), token, `{"first_name":"Renamed","email":"target@new.example"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[types.AdminUserUpdateResponse](t, rr)
	assert.Equal(t, "Renamed", resp.FirstName)
	assert.Equal(t, "target@new.example", resp.Email)
	assert.False(t, resp.SelfUpdate)
	assert.Empty(t, resp.Token)

	rr = api.do(t, http.MethodPut, "/api/v1/admin/users/"+admin.ID.String(), token, `{"username":"chief"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp = decode[types.AdminUserUpdateResponse](t, rr)
	assert.True(t, resp.SelfUpdate)
	assert.NotEmpty(t, resp.Token)

	rr = api.do(t, http.MethodPut, "/api/v1/admin/users/"+uuid.NewString(), token, `{"first_name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminUpdateUserRole(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "boss", models.RoleAdmin)
	target := testhelpers.CreateTestUser(t, api.db, "promoted", models.RoleUser)
	path := "/api/v1/admin/users/" + target.ID.String() + "/role"

	rr := api.do(t, http.MethodPut, path+"?role=ADMIN", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, models.RoleAdmin, decode[types.UserResponse](t, rr).Role)

	rr = api.do(t, http.MethodPut, path, token, `{"role":"USER"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, models.RoleUser, decode[types.UserResponse](t, rr).Role)

	rr = api.do(t, http.MethodPut, path+"?role=OWNER", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminDeleteUser(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "boss", models.RoleAdmin)
	victim, victimToken := api.user(t, "victim", models.RoleUser)
	recipe := api.createRecipe(t, victimToken, testhelpers.RecipeRequest("Orphaned Pie"))
	api.stats.On("Invalidate", mock.Anything).Return()

	rr := api.do(t, http.MethodDelete, "/api/v1/admin/users/"+victim.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
	api.stats.AssertNumberOfCalls(t, "Invalidate", 1)

	rr = api.do(t, http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodDelete, "/api/v1/admin/users/"+victim.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	api.stats.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestAdminRecipes(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "boss", models.RoleAdmin)
	_, authorToken := api.user(t, "author", models.RoleUser)
	api.stats.On("Invalidate", mock.Anything).Return()

	published := api.createRecipe(t, authorToken, testhelpers.RecipeRequest("Visible"))
	draftReq := testhelpers.RecipeRequest("Draft")
	unpublished := false
	draftReq.Published = &unpublished
	api.createRecipe(t, authorToken, draftReq)

	rr := api.do(t, http.MethodGet, "/api/v1/admin/recipes", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(2), decode[types.Page[types.RecipeDTO]](t, rr).TotalElements)

	path := "/api/v1/admin/recipes/" + published.ID.String()
	rr = api.do(t, http.MethodPut, path, token, `{"title":"Moderated","published":false}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	moderated := decode[types.RecipeDTO](t, rr)
	assert.Equal(t, "Moderated", moderated.Title)
	assert.False(t, moderated.Published)
	assert.Len(t, moderated.Ingredients, 3)

	rr = api.do(t, http.MethodPut, path, token, `{"title":null}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	api.stats.AssertCalled(t, "Invalidate", mock.Anything)

	rr = api.do(t, http.MethodGet, "/api/v1/admin/recipes", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), decode[types.Page[types.RecipeDTO]](t, rr).TotalElements)
}
