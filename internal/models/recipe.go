package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeCategory is the closed set of recipe categories
type RecipeCategory string

const (
	CategoryBreakfast  RecipeCategory = "BREAKFAST"
	CategoryLunch      RecipeCategory = "LUNCH"
	CategoryDinner     RecipeCategory = "DINNER"
	CategorySnack      RecipeCategory = "SNACK"
	CategoryDessert    RecipeCategory = "DESSERT"
	CategoryBeverage   RecipeCategory = "BEVERAGE"
	CategoryAppetizer  RecipeCategory = "APPETIZER"
	CategoryMainCourse RecipeCategory = "MAIN_COURSE"
	CategorySideDish   RecipeCategory = "SIDE_DISH"
	CategorySalad      RecipeCategory = "SALAD"
	CategorySoup       RecipeCategory = "SOUP"
	CategoryOther      RecipeCategory = "OTHER"
)

// Categories lists every recognized category in display order
var Categories = []RecipeCategory{
	CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack,
	CategoryDessert, CategoryBeverage, CategoryAppetizer, CategoryMainCourse,
	CategorySideDish, CategorySalad, CategorySoup, CategoryOther,
}

// Valid reports whether c is one of the recognized categories
func (c RecipeCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Recipe is owned by exactly one user and owns its ingredient list
type Recipe struct {
	ID            uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	SearchTitle   string         `gorm:"type:text;not null;default:''" json:"-"`
	SearchDesc    string         `gorm:"column:search_description;type:text;not null;default:''" json:"-"`
	Instructions  string         `gorm:"type:text;not null" json:"instructions"`
	ImageURL      *string        `gorm:"column:image_url;size:512" json:"image_url"`
	PrepTime      int            `gorm:"not null" json:"prep_time"`
	CookTime      int            `gorm:"not null" json:"cook_time"`
	Servings      int            `gorm:"not null" json:"servings"`
	Category      RecipeCategory `gorm:"size:32;not null;index" json:"category"`
	Calories      *float64       `json:"calories"`
	Protein       *float64       `json:"protein"`
	Carbs         *float64       `json:"carbs"`
	Fat           *float64       `json:"fat"`
	Fiber         *float64       `json:"fiber"`
	Sugar         *float64       `json:"sugar"`
	Published     bool           `gorm:"not null;index" json:"published"`
	GeneratedByAI bool           `gorm:"column:generated_by_ai;not null;index" json:"generated_by_ai"`
	UserID        uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients   []Ingredient   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the lowercased search columns in step with title and
// description. Folding happens here so matching does not depend on the
// database's LOWER, which only folds ASCII on SQLite.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.SearchTitle = strings.ToLower(r.Title)
	r.SearchDesc = strings.ToLower(r.Description)
	return nil
}

// OwnedBy reports whether userID is the recipe owner
func (r *Recipe) OwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// Ingredient belongs to a single recipe; Position keeps request order
type Ingredient struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"-"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Unit     string    `gorm:"size:50;not null" json:"unit"`
	Position int       `gorm:"not null" json:"-"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
