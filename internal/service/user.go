package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gfgm/gfgm/backend/internal/mapper"
	"github.com/gfgm/gfgm/backend/internal/metrics"
	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// UserService handles registration, profile changes and user administration
type UserService struct {
	db      *gorm.DB
	auth    IAuthService
	images  imageFiles
	metrics *metrics.Metrics
}

var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB, auth IAuthService, store ImageStore, m *metrics.Metrics) *UserService {
	return &UserService{
		db:      db,
		auth:    auth,
		images:  imageFiles{store: store, metrics: m},
		metrics: m,
	}
}

// RegisterUser creates an account with the USER role.
// Username and email uniqueness is an exact, case-sensitive match.
func (s *UserService) RegisterUser(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := types.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         models.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUsernameFree(tx, user.Username, uuid.Nil); err != nil {
			return err
		}
		if err := ensureEmailFree(tx, user.Email, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, s.duplicateCause(ctx, err, &user)
	}

	s.metrics.UserRegistered()
	return &user, nil
}

// GetUserByID loads a user or returns ErrNotFound
func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, "user %s", userID)
	}
	return &user, nil
}

// UpdateProfile merges the present fields of req into the acting user's profile.
// A changed username invalidates the old token, so a new one is returned.
func (s *UserService) UpdateProfile(ctx context.Context, actorID uuid.UUID, req *types.UserUpdateRequest) (*types.UserUpdateResponse, error) {
	var user models.User
	usernameChanged := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", actorID).Error; err != nil {
			return notFound(err, "user %s", actorID)
		}

		changed, err := applyUsername(tx, &user, req.Username)
		if err != nil {
			return err
		}
		usernameChanged = changed

		if err := applyEmail(tx, &user, req.Email); err != nil {
			return err
		}
		if err := applyName("first_name", &user.FirstName, req.FirstName); err != nil {
			return err
		}
		if err := applyName("last_name", &user.LastName, req.LastName); err != nil {
			return err
		}
		if req.Bio.Present() {
			user.Bio = req.Bio.OrElse("")
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, s.duplicateCause(ctx, err, &user)
	}

	token := ""
	if usernameChanged {
		if token, err = s.auth.GenerateToken(&user); err != nil {
			return nil, err
		}
	}
	resp := mapper.ToUserUpdateResponse(&user, token)
	return &resp, nil
}

// UpdatePassword verifies the current password before storing the new one.
// On any failure the stored hash is left unchanged.
func (s *UserService) UpdatePassword(ctx context.Context, actorID uuid.UUID, req *types.PasswordUpdateRequest) error {
	if err := types.Validate(req); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", actorID).Error; err != nil {
			return notFound(err, "user %s", actorID)
		}
		if !s.auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			return fmt.Errorf("current password is incorrect: %w", types.ErrInvalidCredentials)
		}
		if req.NewPassword != req.ConfirmPassword {
			return types.ErrPasswordMismatch
		}

		hash, err := s.auth.HashPassword(req.NewPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		return tx.Model(&user).Update("password_hash", hash).Error
	})
}

// UpdateProfilePicture stores the new image, persists the reference and then
// removes the previous image.
func (s *UserService) UpdateProfilePicture(ctx context.Context, actorID uuid.UUID, image *ImageUpload) (*models.User, error) {
	if image == nil || image.Reader == nil {
		return nil, types.Validationf("image is required")
	}

	user, err := s.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	name, err := s.images.put(ctx, image)
	if err != nil {
		return nil, err
	}

	var previous *string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(user, "id = ?", actorID).Error; err != nil {
			return notFound(err, "user %s", actorID)
		}
		previous = user.ProfilePicture
		user.ProfilePicture = &name
		return tx.Model(user).Update("profile_picture", name).Error
	})
	if err != nil {
		s.images.remove(ctx, name)
		return nil, err
	}

	s.images.removeRef(ctx, previous)
	return user, nil
}

// AdminUpdateUser applies an administrator's partial update to any user.
// When administrators change their own username or role a new token is issued.
func (s *UserService) AdminUpdateUser(ctx context.Context, actorID, userID uuid.UUID, req *types.AdminUserUpdateRequest) (*types.AdminUserUpdateResponse, error) {
	var user models.User
	identityChanged := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return notFound(err, "user %s", userID)
		}

		changed, err := applyUsername(tx, &user, req.Username)
		if err != nil {
			return err
		}
		identityChanged = changed

		if err := applyEmail(tx, &user, req.Email); err != nil {
			return err
		}
		if err := applyName("first_name", &user.FirstName, req.FirstName); err != nil {
			return err
		}
		if err := applyName("last_name", &user.LastName, req.LastName); err != nil {
			return err
		}

		if req.Password.IsNull() {
			return types.Validationf("password cannot be null")
		}
		if password, ok := req.Password.Get(); ok {
			if err := types.ValidateVar("password", password, "min=6,max=72"); err != nil {
				return err
			}
			hash, err := s.auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.PasswordHash = hash
		}

		if req.Role.IsNull() {
			return types.Validationf("role cannot be null")
		}
		if role, ok := req.Role.Get(); ok {
			if !role.Valid() {
				return types.Validationf("role %q is not a recognized role", role)
			}
			if role != user.Role {
				user.Role = role
				identityChanged = true
			}
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, s.duplicateCause(ctx, err, &user)
	}

	self := actorID == userID
	token := ""
	if self && identityChanged {
		if token, err = s.auth.GenerateToken(&user); err != nil {
			return nil, err
		}
	}
	resp := mapper.ToAdminUserUpdateResponse(&user, token, self)
	return &resp, nil
}

// UpdateUserRole sets the role of any user
func (s *UserService) UpdateUserRole(ctx context.Context, userID uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, types.Validationf("role %q is not a recognized role", role)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// DeleteUser removes a user together with their recipes and ingredients.
// Image files are removed after the transaction commits.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	var user models.User
	var owned []models.Recipe

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return notFound(err, "user %s", userID)
		}

		if err := tx.Select("id", "image_url").Where("user_id = ?", userID).Find(&owned).Error; err != nil {
			return err
		}

		if len(owned) > 0 {
			ids := make([]uuid.UUID, 0, len(owned))
			for _, r := range owned {
				ids = append(ids, r.ID)
			}
			if err := tx.Where("recipe_id IN ?", ids).Delete(&models.Ingredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	s.images.removeRef(ctx, user.ProfilePicture)
	for _, r := range owned {
		s.images.removeRef(ctx, r.ImageURL)
	}
	return nil
}

// ListUsers pages through every account for administration
func (s *UserService) ListUsers(ctx context.Context, page types.PageRequest) (types.Page[types.UserResponse], error) {
	p, order, err := normalizePage(page, defaultPageSize, userSortColumns)
	if err != nil {
		return types.Page[types.UserResponse]{}, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return types.Page[types.UserResponse]{}, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order(order).Offset(p.Page * p.Size).Limit(p.Size).Find(&users).Error; err != nil {
		return types.Page[types.UserResponse]{}, err
	}
	return types.NewPage(mapper.ToUserResponses(users), p.Page, p.Size, total), nil
}

// RecentUsers returns the newest accounts first
func (s *UserService) RecentUsers(ctx context.Context, limit int) ([]types.UserResponse, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = 10
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return mapper.ToUserResponses(users), nil
}

// CountUsers returns the number of registered accounts
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// duplicateCause maps a unique-index violation that got past the pre-checks
// to the colliding field. Other errors are returned unchanged.
func (s *UserService) duplicateCause(ctx context.Context, err error, user *models.User) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	db := s.db.WithContext(ctx)
	if dupErr := ensureUsernameFree(db, user.Username, user.ID); dupErr != nil {
		return dupErr
	}
	if dupErr := ensureEmailFree(db, user.Email, user.ID); dupErr != nil {
		return dupErr
	}
	// the colliding row is gone again; report the conflict without a field
	return fmt.Errorf("username or email conflict: %w", types.ErrDuplicateUsername)
}

func ensureUsernameFree(tx *gorm.DB, username string, self uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ? AND id <> ?", username, self).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return types.ErrDuplicateUsername
	}
	return nil
}

func ensureEmailFree(tx *gorm.DB, email string, self uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, self).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return types.ErrDuplicateEmail
	}
	return nil
}

// applyUsername reports whether the username actually changed
func applyUsername(tx *gorm.DB, user *models.User, field types.Optional[string]) (bool, error) {
	if field.IsNull() {
		return false, types.Validationf("username cannot be null")
	}
	username, ok := field.Get()
	if !ok {
		return false, nil
	}
	username = strings.TrimSpace(username)
	if err := types.ValidateVar("username", username, "notblank,min=3,max=50"); err != nil {
		return false, err
	}
	if username == user.Username {
		return false, nil
	}
	if err := ensureUsernameFree(tx, username, user.ID); err != nil {
		return false, err
	}
	user.Username = username
	return true, nil
}

func applyEmail(tx *gorm.DB, user *models.User, field types.Optional[string]) error {
	if field.IsNull() {
		return types.Validationf("email cannot be null")
	}
	email, ok := field.Get()
	if !ok {
		return nil
	}
	email = strings.TrimSpace(email)
	if err := types.ValidateVar("email", email, "required,email,max=255"); err != nil {
		return err
	}
	if email == user.Email {
		return nil
	}
	if err := ensureEmailFree(tx, email, user.ID); err != nil {
		return err
	}
	user.Email = email
	return nil
}

// applyName sets a name field; an explicit null clears it
func applyName(field string, dst *string, value types.Optional[string]) error {
	if !value.Present() {
		return nil
	}
	name := strings.TrimSpace(value.OrElse(""))
	if err := types.ValidateVar(field, name, "max=100"); err != nil {
		return err
	}
	*dst = name
	return nil
}
