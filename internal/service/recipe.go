package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gfgm/gfgm/backend/internal/mapper"
	"github.com/gfgm/gfgm/backend/internal/metrics"
	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db      *gorm.DB
	images  imageFiles
	metrics *metrics.Metrics
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, store ImageStore, m *metrics.Metrics) *RecipeService {
	return &RecipeService{
		db:      db,
		images:  imageFiles{store: store, metrics: m},
		metrics: m,
	}
}

// CreateRecipe validates the request and stores a recipe owned by the actor
func (s *RecipeService) CreateRecipe(ctx context.Context, actorID uuid.UUID, req *types.RecipeRequest, image *ImageUpload) (*types.RecipeDTO, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	return s.create(ctx, actorID, req, image, false)
}

// SaveAIGeneratedRecipe stores a recipe produced by the prediction service
func (s *RecipeService) SaveAIGeneratedRecipe(ctx context.Context, actorID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDTO, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	return s.create(ctx, actorID, req, nil, true)
}

func (s *RecipeService) create(ctx context.Context, actorID uuid.UUID, req *types.RecipeRequest, image *ImageUpload, aiGenerated bool) (*types.RecipeDTO, error) {
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "id = ?", actorID).Error; err != nil {
		return nil, notFound(err, "user %s", actorID)
	}

	imageName, err := s.images.put(ctx, image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{UserID: owner.ID, GeneratedByAI: aiGenerated}
	applyRecipeRequest(&recipe, req)
	if imageName != "" {
		recipe.ImageURL = &imageName
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		ings, err := insertIngredients(tx, recipe.ID, req.Ingredients)
		if err != nil {
			return err
		}
		recipe.Ingredients = ings
		return nil
	})
	if err != nil {
		s.images.remove(ctx, imageName)
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.metrics.RecipeCreated(aiGenerated)
	recipe.User = &owner
	dto := mapper.ToRecipeDTO(&recipe)
	return &dto, nil
}

// UpdateRecipe overwrites every field of an owned recipe and replaces its
// ingredient list. A new image replaces the previous one.
//
// Ownership is checked before the request is validated, so a non-owner is
// refused whatever the body contains.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, req *types.RecipeRequest, image *ImageUpload) (*types.RecipeDTO, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.OwnedBy(actorID) {
		return nil, fmt.Errorf("recipe %s is not owned by user %s: %w", recipeID, actorID, types.ErrForbidden)
	}
	if err := types.Validate(req); err != nil {
		return nil, err
	}

	imageName, err := s.images.put(ctx, image)
	if err != nil {
		return nil, err
	}

	previous := recipe.ImageURL
	applyRecipeRequest(recipe, req)
	if imageName != "" {
		recipe.ImageURL = &imageName
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		s.images.remove(ctx, imageName)
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	if imageName != "" {
		s.images.removeRef(ctx, previous)
	}
	return s.loadDTO(ctx, recipeID)
}

// DeleteRecipe removes an owned recipe with its ingredients and image
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !recipe.OwnedBy(actorID) {
		return fmt.Errorf("recipe %s is not owned by user %s: %w", recipeID, actorID, types.ErrForbidden)
	}
	return s.delete(ctx, recipe)
}

// AdminDeleteRecipe removes any recipe without an ownership check
func (s *RecipeService) AdminDeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	return s.delete(ctx, recipe)
}

func (s *RecipeService) delete(ctx context.Context, recipe *models.Recipe) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.metrics.RecipeDeleted()
	s.images.removeRef(ctx, recipe.ImageURL)
	return nil
}

// AdminUpdateRecipe patches the fields present in req. A present ingredient
// list replaces the stored list.
func (s *RecipeService) AdminUpdateRecipe(ctx context.Context, recipeID uuid.UUID, req *types.AdminRecipeUpdateRequest) (*types.RecipeDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			return notFound(err, "recipe %s", recipeID)
		}

		if err := applyRecipePatch(&recipe, req); err != nil {
			return err
		}

		var ingredients []types.IngredientRequest
		if req.Ingredients.Present() {
			list, ok := req.Ingredients.Get()
			if !ok {
				return types.Validationf("ingredients cannot be null")
			}
			if err := types.Validate(&ingredientList{Ingredients: list}); err != nil {
				return err
			}
			ingredients = list
		}

		if err := tx.Omit(clause.Associations).Save(&recipe).Error; err != nil {
			return err
		}
		if ingredients != nil {
			return replaceIngredients(tx, recipe.ID, ingredients)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadDTO(ctx, recipeID)
}

// GetRecipe returns a recipe. Unpublished recipes are visible to their owner only.
func (s *RecipeService) GetRecipe(ctx context.Context, viewerID, recipeID uuid.UUID) (*types.RecipeDTO, error) {
	dto, err := s.loadDTO(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !dto.Published && (dto.Author == nil || dto.Author.ID != viewerID) {
		return nil, types.NotFoundf("recipe %s", recipeID)
	}
	return dto, nil
}

// GetAllRecipes lists published recipes
func (s *RecipeService) GetAllRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return s.list(ctx, page, defaultPageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("published = ?", true)
	})
}

// SearchRecipes matches published recipes whose title or description contains
// the query, ignoring case.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.GetAllRecipes(ctx, page)
	}
	pattern := likePattern(query)
	return s.list(ctx, page, defaultPageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("published = ?", true).
			Where(`(search_title LIKE ? ESCAPE '\' OR search_description LIKE ? ESCAPE '\')`, pattern, pattern)
	})
}

// GetUserRecipes lists every recipe of the actor regardless of publish state
func (s *RecipeService) GetUserRecipes(ctx context.Context, actorID uuid.UUID, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return s.list(ctx, page, defaultPageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", actorID)
	})
}

// GetAIGeneratedRecipes lists published recipes created by the prediction service
func (s *RecipeService) GetAIGeneratedRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return s.list(ctx, page, aiListPageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("generated_by_ai = ? AND published = ?", true, true)
	})
}

// ListAllRecipes lists every recipe for moderation
func (s *RecipeService) ListAllRecipes(ctx context.Context, page types.PageRequest) (types.Page[types.RecipeDTO], error) {
	return s.list(ctx, page, defaultPageSize, func(db *gorm.DB) *gorm.DB { return db })
}

// CountRecipes returns the number of stored recipes, published or not
func (s *RecipeService) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Count(&count).Error
	return count, err
}

// CountAIGeneratedRecipes returns the number of recipes saved from the prediction service
func (s *RecipeService) CountAIGeneratedRecipes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("generated_by_ai = ?", true).Count(&count).Error
	return count, err
}

func (s *RecipeService) list(ctx context.Context, page types.PageRequest, defaultSize int, scope func(*gorm.DB) *gorm.DB) (types.Page[types.RecipeDTO], error) {
	p, order, err := normalizePage(page, defaultSize, recipeSortColumns)
	if err != nil {
		return types.Page[types.RecipeDTO]{}, err
	}

	var total int64
	if err := scope(s.db.WithContext(ctx).Model(&models.Recipe{})).Count(&total).Error; err != nil {
		return types.Page[types.RecipeDTO]{}, err
	}

	var recipes []models.Recipe
	err = withAggregate(scope(s.db.WithContext(ctx))).
		Order(order).
		Offset(p.Page * p.Size).
		Limit(p.Size).
		Find(&recipes).Error
	if err != nil {
		return types.Page[types.RecipeDTO]{}, err
	}

	return types.NewPage(mapper.ToRecipeDTOs(recipes), p.Page, p.Size, total), nil
}

func (s *RecipeService) findRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "recipe %s", id)
	}
	return &recipe, nil
}

func (s *RecipeService) loadDTO(ctx context.Context, id uuid.UUID) (*types.RecipeDTO, error) {
	var recipe models.Recipe
	if err := withAggregate(s.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "recipe %s", id)
	}
	dto := mapper.ToRecipeDTO(&recipe)
	return &dto, nil
}

// withAggregate preloads the author and the ordered ingredient list
func withAggregate(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

type ingredientList struct {
	Ingredients []types.IngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
}

func insertIngredients(tx *gorm.DB, recipeID uuid.UUID, reqs []types.IngredientRequest) ([]models.Ingredient, error) {
	ings := mapper.ToIngredients(reqs)
	if len(ings) == 0 {
		return ings, nil
	}
	for i := range ings {
		ings[i].RecipeID = recipeID
	}
	if err := tx.Create(&ings).Error; err != nil {
		return nil, err
	}
	return ings, nil
}

// replaceIngredients deletes the stored list and inserts reqs in order
func replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, reqs []types.IngredientRequest) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Ingredient{}).Error; err != nil {
		return err
	}
	_, err := insertIngredients(tx, recipeID, reqs)
	return err
}

func applyRecipeRequest(r *models.Recipe, req *types.RecipeRequest) {
	r.Title = strings.TrimSpace(req.Title)
	r.Description = req.Description
	r.Instructions = req.Instructions
	r.PrepTime = req.PrepTime
	r.CookTime = req.CookTime
	r.Servings = req.Servings
	r.Category = req.Category
	r.Published = req.IsPublished()
	r.Calories = req.Calories
	r.Protein = req.Protein
	r.Carbs = req.Carbs
	r.Fat = req.Fat
	r.Fiber = req.Fiber
	r.Sugar = req.Sugar
}

// applyRecipePatch copies present fields. Required fields reject null;
// description and nutrition values are cleared by null.
func applyRecipePatch(r *models.Recipe, req *types.AdminRecipeUpdateRequest) error {
	if err := patchString("title", &r.Title, req.Title, "notblank,max=255"); err != nil {
		return err
	}
	if err := patchString("instructions", &r.Instructions, req.Instructions, "notblank"); err != nil {
		return err
	}
	if req.Description.Present() {
		r.Description = req.Description.OrElse("")
	}

	if req.Category.IsNull() {
		return types.Validationf("category cannot be null")
	}
	if c, ok := req.Category.Get(); ok {
		if !c.Valid() {
			return types.Validationf("category %q is not a recognized category", c)
		}
		r.Category = c
	}

	if req.Published.IsNull() {
		return types.Validationf("published cannot be null")
	}
	if v, ok := req.Published.Get(); ok {
		r.Published = v
	}

	for _, f := range []struct {
		name string
		dst  *int
		val  types.Optional[int]
	}{
		{"prep_time", &r.PrepTime, req.PrepTime},
		{"cook_time", &r.CookTime, req.CookTime},
		{"servings", &r.Servings, req.Servings},
	} {
		if f.val.IsNull() {
			return types.Validationf("%s cannot be null", f.name)
		}
		if v, ok := f.val.Get(); ok {
			if v <= 0 {
				return types.Validationf("%s must be greater than 0", f.name)
			}
			*f.dst = v
		}
	}

	for _, f := range []struct {
		name string
		dst  **float64
		val  types.Optional[float64]
	}{
		{"calories", &r.Calories, req.Calories},
		{"protein", &r.Protein, req.Protein},
		{"carbs", &r.Carbs, req.Carbs},
		{"fat", &r.Fat, req.Fat},
		{"fiber", &r.Fiber, req.Fiber},
		{"sugar", &r.Sugar, req.Sugar},
	} {
		if !f.val.Present() {
			continue
		}
		v, ok := f.val.Get()
		if !ok {
			*f.dst = nil
			continue
		}
		if v < 0 {
			return types.Validationf("%s must be at least 0", f.name)
		}
		*f.dst = &v
	}
	return nil
}

func patchString(field string, dst *string, value types.Optional[string], tag string) error {
	if value.IsNull() {
		return types.Validationf("%s cannot be null", field)
	}
	v, ok := value.Get()
	if !ok {
		return nil
	}
	if err := types.ValidateVar(field, v, tag); err != nil {
		return err
	}
	*dst = strings.TrimSpace(v)
	return nil
}
