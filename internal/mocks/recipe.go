package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) recipe(args mock.Arguments) (*types.RecipeDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDTO), args.Error(1)
}

func (m *MockRecipeService) page(args mock.Arguments) (types.Page[types.RecipeDTO], error) {
	if args.Get(0) == nil {
		return types.Page[types.RecipeDTO]{}, args.Error(1)
	}
	return args.Get(0).(types.Page[types.RecipeDTO]), args.Error(1)
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeService) CreateRecipe(ctx context.Context, actorID uuid.UUID, req *types.RecipeRequest, image *service.ImageUpload) (*types.RecipeDTO, error) {
	return m.recipe(m.Called(ctx, actorID, req, image))
}

// UpdateRecipe mocks the UpdateRecipe method
func (m *MockRecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, req *types.RecipeRequest, image *service.ImageUpload) (*types.RecipeDTO, error) {
	return m.recipe(m.Called(ctx, actorID, recipeID, req, image))
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	args := m.Called(ctx, actorID, recipeID)
	return args.Error(0)
}

// SaveAIGeneratedRecipe mocks the SaveAIGeneratedRecipe method
func (m *MockRecipeService) SaveAIGeneratedRecipe(ctx context.Context, actorID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDTO, error) {
	return m.recipe(m.Called(ctx, actorID, req))
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, viewerID, recipeID uuid.UUID) (*types.RecipeDTO, error) {
	return m.recipe(m.Called(ctx, viewerID, recipeID))
}

// GetAllRecipes mocks the GetAllRecipes method
func (m *MockRecipeService) GetAllRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return m.page(m.Called(ctx, page))
}

// SearchRecipes mocks the SearchRecipes method
func (m *MockRecipeService) SearchRecipes(ctx context.Context, query string, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return m.page(m.Called(ctx, query, page))
}

// GetUserRecipes mocks the GetUserRecipes method
func (m *MockRecipeService) GetUserRecipes(ctx context.Context, actorID uuid.UUID, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return m.page(m.Called(ctx, actorID, page))
}

// GetAIGeneratedRecipes mocks the GetAIGeneratedRecipes method
func (m *MockRecipeService) GetAIGeneratedRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return m.page(m.Called(ctx, page))
}

// AdminUpdateRecipe mocks the AdminUpdateRecipe method
func (m *MockRecipeService) AdminUpdateRecipe(ctx context.Context, recipeID uuid.UUID, req *types.AdminRecipeUpdateRequest) (*types.RecipeDTO, error) {
	return m.recipe(m.Called(ctx, recipeID, req))
}

// AdminDeleteRecipe mocks the AdminDeleteRecipe method
func (m *MockRecipeService) AdminDeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

// ListAllRecipes mocks the ListAllRecipes method
func (m *MockRecipeService) ListAllRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return m.page(m.Called(ctx, page))
}

// CountRecipes mocks the CountRecipes method
func (m *MockRecipeService) CountRecipes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// CountAIGeneratedRecipes mocks the CountAIGeneratedRecipes method
func (m *MockRecipeService) CountAIGeneratedRecipes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
