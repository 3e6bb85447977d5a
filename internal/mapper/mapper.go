// Package mapper projects persisted aggregates into response DTOs.
// Projections never include back references, so they always serialize.
package mapper

import (
	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// ToRecipeDTO projects a recipe with its ingredients and author summary.
// A recipe loaded without its author yields a nil Author.
func ToRecipeDTO(r *models.Recipe) types.RecipeDTO {
	dto := types.RecipeDTO{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Instructions:  r.Instructions,
		ImageURL:      r.ImageURL,
		PrepTime:      r.PrepTime,
		CookTime:      r.CookTime,
		Servings:      r.Servings,
		Calories:      r.Calories,
		Protein:       r.Protein,
		Carbs:         r.Carbs,
		Fat:           r.Fat,
		Fiber:         r.Fiber,
		Sugar:         r.Sugar,
		GeneratedByAI: r.GeneratedByAI,
		Category:      r.Category,
		Published:     r.Published,
		Ingredients:   ToIngredientDTOs(r.Ingredients),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.User != nil {
		author := ToUserSummary(r.User)
		dto.Author = &author
	}
	return dto
}

// ToRecipeDTOs projects a slice of recipes
func ToRecipeDTOs(recipes []models.Recipe) []types.RecipeDTO {
	out := make([]types.RecipeDTO, 0, len(recipes))
	for i := range recipes {
		out = append(out, ToRecipeDTO(&recipes[i]))
	}
	return out
}

func ToIngredientDTO(i *models.Ingredient) types.IngredientDTO {
	return types.IngredientDTO{
		ID:     i.ID,
		Name:   i.Name,
		Amount: i.Amount,
		Unit:   i.Unit,
	}
}

func ToIngredientDTOs(ings []models.Ingredient) []types.IngredientDTO {
	out := make([]types.IngredientDTO, 0, len(ings))
	for i := range ings {
		out = append(out, ToIngredientDTO(&ings[i]))
	}
	return out
}

func ToUserSummary(u *models.User) types.UserSummaryDTO {
	return types.UserSummaryDTO{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	}
}

func ToUserResponse(u *models.User) types.UserResponse {
	return types.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToUserResponses(users []models.User) []types.UserResponse {
	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}

// ToUserUpdateResponse projects a user after a profile update; token may be empty
func ToUserUpdateResponse(u *models.User, token string) types.UserUpdateResponse {
	return types.UserUpdateResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		Role:           u.Role,
		Token:          token,
	}
}

func ToAdminUserUpdateResponse(u *models.User, token string, self bool) types.AdminUserUpdateResponse {
	return types.AdminUserUpdateResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		Token:          token,
		SelfUpdate:     self,
	}
}

// ToIngredients builds ingredient rows in request order
func ToIngredients(reqs []types.IngredientRequest) []models.Ingredient {
	out := make([]models.Ingredient, 0, len(reqs))
	for i, req := range reqs {
		out = append(out, models.Ingredient{
			Name:     req.Name,
			Amount:   req.Amount,
			Unit:     req.Unit,
			Position: i,
		})
	}
	return out
}
