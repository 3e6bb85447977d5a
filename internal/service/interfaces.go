package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	IssueAuthResponse(user *models.User) (*types.AuthResponse, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IUserService defines account and profile mutations.
// Every mutation receives the acting user explicitly.
type IUserService interface {
	RegisterUser(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, actorID uuid.UUID, req *types.UserUpdateRequest) (*types.UserUpdateResponse, error)
	UpdatePassword(ctx context.Context, actorID uuid.UUID, req *types.PasswordUpdateRequest) error
	UpdateProfilePicture(ctx context.Context, actorID uuid.UUID, image *ImageUpload) (*models.User, error)

	AdminUpdateUser(ctx context.Context, actorID, userID uuid.UUID, req *types.AdminUserUpdateRequest) (*types.AdminUserUpdateResponse, error)
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ListUsers(ctx context.Context, page types.PageRequest) (types.Page[types.UserResponse], error)
	RecentUsers(ctx context.Context, limit int) ([]types.UserResponse, error)
	CountUsers(ctx context.Context) (int64, error)
}

// IRecipeService defines recipe reads and owner/admin mutations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, actorID uuid.UUID, req *types.RecipeRequest, image *ImageUpload) (*types.RecipeDTO, error)
	UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, req *types.RecipeRequest, image *ImageUpload) (*types.RecipeDTO, error)
	DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error
	SaveAIGeneratedRecipe(ctx context.Context, actorID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDTO, error)

	GetRecipe(ctx context.Context, viewerID, recipeID uuid.UUID) (*types.RecipeDTO, error)
	GetAllRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error)
	SearchRecipes(ctx context.Context, query string, page types.PageRequest) (types.Page[types.RecipeDTO], error)
	GetUserRecipes(ctx context.Context, actorID uuid.UUID, page types.PageRequest) (types.Page[types.RecipeDTO], error)
	GetAIGeneratedRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error)

	AdminUpdateRecipe(ctx context.Context, recipeID uuid.UUID, req *types.AdminRecipeUpdateRequest) (*types.RecipeDTO, error)
	AdminDeleteRecipe(ctx context.Context, recipeID uuid.UUID) error
	ListAllRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error)
	CountRecipes(ctx context.Context) (int64, error)
	CountAIGeneratedRecipes(ctx context.Context) (int64, error)
}

// IAIService proxies the external prediction service
type IAIService interface {
	Predict(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

// IStatsService aggregates admin dashboard counters
type IStatsService interface {
	GetStats(ctx context.Context) (*types.StatsResponse, error)
	Invalidate(ctx context.Context)
}
