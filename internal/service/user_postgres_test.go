package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/testhelpers"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// TestUniqueIndexConflicts commits a competing account on a separate
// connection after the uniqueness pre-check has passed, so the write itself
// hits the unique index.
func TestUniqueIndexConflicts(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour)
	users := service.NewUserService(db, auth, nil, nil)
	ctx := context.Background()

	var rival *models.User
	insertRival := func(*gorm.DB) {
		if rival == nil {
			return
		}
		r := rival
		rival = nil
		require.NoError(t, db.Session(&gorm.Session{NewDB: true}).Create(r).Error)
	}
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:insert_rival_create", insertRival))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:insert_rival_update", insertRival))

	t.Run("register with a taken username", func(t *testing.T) {
		rival = &models.User{Username: "racer", Email: "first@example.com", PasswordHash: "x"}
		_, err := users.RegisterUser(ctx, registerRequest("racer"))
		assert.ErrorIs(t, err, types.ErrDuplicateUsername)
	})

	t.Run("register with a taken email", func(t *testing.T) {
		rival = &models.User{Username: "early", Email: "shared@example.com", PasswordHash: "x"}
		req := registerRequest("late")
		req.Email = "shared@example.com"
		_, err := users.RegisterUser(ctx, req)
		assert.ErrorIs(t, err, types.ErrDuplicateEmail)
	})

	t.Run("rename to a taken username", func(t *testing.T) {
		user := testhelpers.CreateTestUser(t, db, "renamer", models.RoleUser)
		rival = &models.User{Username: "wanted", Email: "wanted@example.com", PasswordHash: "x"}

		_, err := users.UpdateProfile(ctx, user.ID, &types.UserUpdateRequest{Username: types.Some("wanted")})
		assert.ErrorIs(t, err, types.ErrDuplicateUsername)

		stored, err := users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamer", stored.Username)
	})

	t.Run("admin email change to a taken email", func(t *testing.T) {
		admin := testhelpers.CreateTestUser(t, db, "moderator", models.RoleAdmin)
		target := testhelpers.CreateTestUser(t, db, "target", models.RoleUser)
		rival = &models.User{Username: "holder", Email: "held@example.com", PasswordHash: "x"}

		_, err := users.AdminUpdateUser(ctx, admin.ID, target.ID, &types.AdminUserUpdateRequest{Email: types.Some("held@example.com")})
		assert.ErrorIs(t, err, types.ErrDuplicateEmail)
	})
}
