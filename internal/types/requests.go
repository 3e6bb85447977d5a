package types

import (
	"github.com/gfgm/gfgm/backend/internal/models"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Username  string `json:"username" validate:"notblank,min=3,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// IngredientRequest is one ingredient line of a recipe request
type IngredientRequest struct {
	Name   string  `json:"name" validate:"notblank,max=255"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Unit   string  `json:"unit" validate:"notblank,max=50"`
}

// Nutrition holds the optional per-recipe nutrition values
type Nutrition struct {
	Calories *float64 `json:"calories" validate:"omitempty,gte=0"`
	Protein  *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs    *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat      *float64 `json:"fat" validate:"omitempty,gte=0"`
	Fiber    *float64 `json:"fiber" validate:"omitempty,gte=0"`
	Sugar    *float64 `json:"sugar" validate:"omitempty,gte=0"`
}

// RecipeRequest is the full recipe payload used for create and owner update
type RecipeRequest struct {
	Title        string                `json:"title" validate:"notblank,max=255"`
	Description  string                `json:"description"`
	Instructions string                `json:"instructions" validate:"notblank"`
	PrepTime     int                   `json:"prep_time" validate:"gt=0"`
	CookTime     int                   `json:"cook_time" validate:"gt=0"`
	Servings     int                   `json:"servings" validate:"gt=0"`
	Category     models.RecipeCategory `json:"category" validate:"required,category"`
	Published    *bool                 `json:"published"`
	Ingredients  []IngredientRequest   `json:"ingredients" validate:"required,min=1,dive"`
	Nutrition
}

// IsPublished defaults to true when the flag is omitted
func (r *RecipeRequest) IsPublished() bool {
	return r.Published == nil || *r.Published
}

// UserUpdateRequest is a partial profile update; absent fields are left untouched
type UserUpdateRequest struct {
	Username  Optional[string] `json:"username"`
	Email     Optional[string] `json:"email"`
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
	Bio       Optional[string] `json:"bio"`
}

// PasswordUpdateRequest changes the acting user's password
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// AdminUserUpdateRequest is a partial user update performed by an administrator
type AdminUserUpdateRequest struct {
	Username  Optional[string]      `json:"username"`
	Email     Optional[string]      `json:"email"`
	FirstName Optional[string]      `json:"first_name"`
	LastName  Optional[string]      `json:"last_name"`
	Password  Optional[string]      `json:"password"`
	Role      Optional[models.Role] `json:"role"`
}

// AdminRecipeUpdateRequest is a partial recipe update performed by an administrator.
// A present ingredients list replaces the stored list entirely.
type AdminRecipeUpdateRequest struct {
	Title        Optional[string]                `json:"title"`
	Description  Optional[string]                `json:"description"`
	Instructions Optional[string]                `json:"instructions"`
	Category     Optional[models.RecipeCategory] `json:"category"`
	Published    Optional[bool]                  `json:"published"`
	PrepTime     Optional[int]                   `json:"prep_time"`
	CookTime     Optional[int]                   `json:"cook_time"`
	Servings     Optional[int]                   `json:"servings"`
	Calories     Optional[float64]               `json:"calories"`
	Protein      Optional[float64]               `json:"protein"`
	Carbs        Optional[float64]               `json:"carbs"`
	Fat          Optional[float64]               `json:"fat"`
	Fiber        Optional[float64]               `json:"fiber"`
	Sugar        Optional[float64]               `json:"sugar"`
	Ingredients  Optional[[]IngredientRequest]   `json:"ingredients"`
}

// PageRequest carries paging and sorting parameters from the query string
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
}
