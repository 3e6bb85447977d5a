package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/testhelpers"
	"github.com/gfgm/gfgm/backend/internal/types"
)

func pictureRequest(t *testing.T, field, filename, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("picture bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/profile/picture", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestGetProfile(t *testing.T) {
	api := setupAPI(t)
	user, token := api.user(t, "profiled", models.RoleUser)

	rr := api.do(t, http.MethodGet, "/api/v1/users/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID, decode[types.UserResponse](t, rr).ID)

	rr = api.do(t, http.MethodGet, "/api/v1/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateProfile(t *testing.T) {
	api := setupAPI(t)
	user, token := api.user(t, "partial", models.RoleUser)
	testhelpers.CreateTestUser(t, api.db, "occupied", models.RoleUser)

	rr := api.do(t, http.MethodPut, "/api/v1/users/profile", token, `{"first_name":"Julia"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode[types.UserUpdateResponse](t, rr)
	assert.Equal(t, "Julia", resp.FirstName)
	assert.Equal(t, "User", resp.LastName)
	assert.Equal(t, "partial", resp.Username)
	assert.Empty(t, resp.Token)

	rr = api.do(t, http.MethodPut, "/api/v1/users/profile", token, `{"bio":"Loves baking","last_name":null}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp = decode[types.UserUpdateResponse](t, rr)
	assert.Equal(t, "Loves baking", resp.Bio)
	assert.Empty(t, resp.LastName)
	assert.Equal(t, "Julia", resp.FirstName)

	rr = api.do(t, http.MethodPut, "/api/v1/users/profile", token, `{"username":"occupied"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = api.do(t, http.MethodPut, "/api/v1/users/profile", token, `{"username":"renamed"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp = decode[types.UserUpdateResponse](t, rr)
	require.NotEmpty(t, resp.Token)

	claims, err := api.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "renamed", claims.Username)
}

func TestUpdatePassword(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "rotator", models.RoleUser)

	tests := []struct {
		name   string
		body   types.PasswordUpdateRequest
		status int
	}{
		{
			name:   "wrong current password",
			body:   types.PasswordUpdateRequest{CurrentPassword: "nope", NewPassword: "newsecret", ConfirmPassword: "newsecret"},
			status: http.StatusUnauthorized,
		},
		{
			name:   "confirmation mismatch",
			body:   types.PasswordUpdateRequest{CurrentPassword: testhelpers.TestPassword, NewPassword: "newsecret", ConfirmPassword: "different"},
			status: http.StatusBadRequest,
		},
		{
			name:   "success",
			body:   types.PasswordUpdateRequest{CurrentPassword: testhelpers.TestPassword, NewPassword: "newsecret", ConfirmPassword: "newsecret"},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.do(t, http.MethodPut, "/api/v1/users/profile/password", token, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}

	rr := api.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Username: "rotator", Password: "newsecret"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateProfilePicture(t *testing.T) {
	api := setupAPI(t)
	_, token := api.user(t, "pictured", models.RoleUser)

	rr := api.send(pictureRequest(t, "image", "me.png", "image/png"), token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	first := decode[types.UserResponse](t, rr)
	require.NotNil(t, first.ProfilePicture)
	assert.True(t, api.store.Has(*first.ProfilePicture))

	rr = api.send(pictureRequest(t, "image", "me2.png", "image/png"), token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	second := decode[types.UserResponse](t, rr)
	require.NotNil(t, second.ProfilePicture)
	assert.False(t, api.store.Has(*first.ProfilePicture))
	assert.Equal(t, []string{*second.ProfilePicture}, api.store.Names())

	rr = api.send(pictureRequest(t, "image", "notes.txt", "text/plain"), token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.send(pictureRequest(t, "avatar", "me.png", "image/png"), token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{*second.ProfilePicture}, api.store.Names())
}
