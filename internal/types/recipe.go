package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/gfgm/gfgm/backend/internal/models"
)

// IngredientDTO is the read-only projection of an ingredient
type IngredientDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Amount float64   `json:"amount"`
	Unit   string    `json:"unit"`
}

// RecipeDTO is the read-only projection of a recipe aggregate.
// Author carries a summary only, never the author's recipes.
type RecipeDTO struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Instructions  string                `json:"instructions"`
	ImageURL      *string               `json:"image_url"`
	PrepTime      int                   `json:"prep_time"`
	CookTime      int                   `json:"cook_time"`
	Servings      int                   `json:"servings"`
	Calories      *float64              `json:"calories"`
	Protein       *float64              `json:"protein"`
	Carbs         *float64              `json:"carbs"`
	Fat           *float64              `json:"fat"`
	Fiber         *float64              `json:"fiber"`
	Sugar         *float64              `json:"sugar"`
	GeneratedByAI bool                  `json:"generated_by_ai"`
	Category      models.RecipeCategory `json:"category"`
	Published     bool                  `json:"published"`
	Ingredients   []IngredientDTO       `json:"ingredients"`
	Author        *UserSummaryDTO       `json:"author"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// Page is one page of a paged listing
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage builds a page and derives the page count from the total
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// StatsResponse is the admin dashboard summary
type StatsResponse struct {
	TotalUsers         int64 `json:"total_users"`
	TotalRecipes       int64 `json:"total_recipes"`
	AIGeneratedRecipes int64 `json:"ai_generated_recipes"`
}
