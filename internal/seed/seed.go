// Package seed bootstraps an administrator account and optional sample content.
// Registration only ever creates USER accounts, so the first ADMIN comes from here.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// AdminOptions describes the administrator to create or promote
type AdminOptions struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureAdmin registers the administrator if the username is free and makes
// sure the account holds the ADMIN role. An existing account keeps its password.
func EnsureAdmin(ctx context.Context, db *gorm.DB, users service.IUserService, opts AdminOptions) (*models.User, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("username = ?", opts.Username).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsAdmin() {
			logrus.WithField("username", existing.Username).Info("admin already present")
			return &existing, nil
		}
		logrus.WithField("username", existing.Username).Info("promoting existing user to admin")
		return users.UpdateUserRole(ctx, existing.ID, models.RoleAdmin)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to look up %s: %w", opts.Username, err)
	}

	user, err := users.RegisterUser(ctx, &types.RegisterRequest{
		Username:  opts.Username,
		Email:     opts.Email,
		Password:  opts.Password,
		FirstName: opts.FirstName,
		LastName:  opts.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register admin: %w", err)
	}

	logrus.WithField("username", user.Username).Info("admin created")
	return users.UpdateUserRole(ctx, user.ID, models.RoleAdmin)
}

func amount(v float64) *float64 { return &v }

// sampleRecipes are created for the seeded owner on an empty install
var sampleRecipes = []types.RecipeRequest{
	{
		Title:        "Buttermilk Pancakes",
		Description:  "Fluffy weekend pancakes",
		Instructions: "Whisk the dry ingredients, fold in buttermilk and eggs, then cook on a hot griddle.",
		PrepTime:     10,
		CookTime:     15,
		Servings:     4,
		Category:     models.CategoryBreakfast,
		Ingredients: []types.IngredientRequest{
			{Name: "flour", Amount: 2, Unit: "cup"},
			{Name: "buttermilk", Amount: 2, Unit: "cup"},
			{Name: "eggs", Amount: 2, Unit: "piece"},
			{Name: "baking powder", Amount: 2, Unit: "tsp"},
		},
		Nutrition: types.Nutrition{Calories: amount(320), Protein: amount(9)},
	},
	{
		Title:        "Tomato Basil Soup",
		Description:  "A quick soup from pantry tomatoes",
		Instructions: "Soften the onion, add tomatoes and stock, simmer for 20 minutes and blend with basil.",
		PrepTime:     10,
		CookTime:     25,
		Servings:     4,
		Category:     models.CategoryLunch,
		Ingredients: []types.IngredientRequest{
			{Name: "canned tomatoes", Amount: 800, Unit: "g"},
			{Name: "onion", Amount: 1, Unit: "piece"},
			{Name: "vegetable stock", Amount: 500, Unit: "ml"},
			{Name: "basil", Amount: 1, Unit: "handful"},
		},
		Nutrition: types.Nutrition{Calories: amount(150), Fiber: amount(4)},
	},
	{
		Title:        "Lemon Garlic Salmon",
		Description:  "Sheet-pan salmon for busy weeknights",
		Instructions: "Brush the fillets with lemon, garlic and oil, then roast at 200C for 12 minutes.",
		PrepTime:     5,
		CookTime:     12,
		Servings:     2,
		Category:     models.CategoryDinner,
		Ingredients: []types.IngredientRequest{
			{Name: "salmon fillet", Amount: 2, Unit: "piece"},
			{Name: "lemon", Amount: 1, Unit: "piece"},
			{Name: "garlic", Amount: 2, Unit: "clove"},
			{Name: "olive oil", Amount: 1, Unit: "tbsp"},
		},
		Nutrition: types.Nutrition{Calories: amount(410), Protein: amount(34), Fat: amount(26)},
	},
}

// SampleRecipes creates the sample recipes for ownerID unless the owner
// already has recipes. It returns the number created.
func SampleRecipes(ctx context.Context, recipes service.IRecipeService, ownerID uuid.UUID) (int, error) {
	existing, err := recipes.GetUserRecipes(ctx, ownerID, types.PageRequest{Size: 1})
	if err != nil {
		return 0, err
	}
	if existing.TotalElements > 0 {
		logrus.WithField("owner_id", ownerID).Info("owner already has recipes, skipping samples")
		return 0, nil
	}

	created := 0
	for i := range sampleRecipes {
		req := sampleRecipes[i]
		if _, err := recipes.CreateRecipe(ctx, ownerID, &req, nil); err != nil {
			return created, fmt.Errorf("failed to create %q: %w", req.Title, err)
		}
		created++
	}
	return created, nil
}
