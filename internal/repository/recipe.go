package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// EligibilityFilter selects the recipes a meal plan may draw from.
type EligibilityFilter struct {
	RecipeType       models.RecipeType
	MealType         models.MealType
	Cuisine          string
	ExcludeAllergens []models.AllergenType
	ExcludeIDs       []uuid.UUID
}

// ListFilter narrows a recipe listing. Zero values match everything.
type ListFilter struct {
	Search     string
	Cuisine    string
	MealType   models.MealType
	RecipeType models.RecipeType
	OwnerID    *uuid.UUID
	Limit      int
	Offset     int
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create stores recipe, its ingredient rows and any ingredients not seen
// before, in one transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe, ingredients []models.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertIngredients(tx, ingredients); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if len(recipe.Ingredients) == 0 {
			return nil
		}
		rows := make([]models.RecipeIngredient, len(recipe.Ingredients))
		for i, ri := range recipe.Ingredients {
			ri.RecipeID = recipe.ID
			ri.Ingredient = nil
			rows[i] = ri
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to link recipe ingredients: %w", err)
		}
		recipe.Ingredients = rows
		return nil
	})
}

// Get loads a recipe with ingredients, allergen tags, images and ratings.
func (r *RecipeRepository) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients.Ingredient.Allergens").
		Preload("Images").
		Preload("Ratings").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// List returns one page of recipes and the total number of matches.
func (r *RecipeRepository) List(ctx context.Context, f ListFilter) ([]models.Recipe, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Recipe{})
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.Cuisine != "" {
		q = q.Where("LOWER(cuisine_name) = ?", strings.ToLower(f.Cuisine))
	}
	if f.MealType != "" {
		q = q.Where("meal_type = ?", f.MealType)
	}
	if f.RecipeType != "" {
		q = q.Where("recipe_type = ?", f.RecipeType)
	}
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var recipes []models.Recipe
	if err := q.Preload("Images").Order("created_at DESC").Order("id").
		Limit(limit).Offset(f.Offset).Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// Similar returns recipes close to recipe. PostgreSQL ranks by embedding
// distance; other stores fall back to the same cuisine.
func (r *RecipeRepository) Similar(ctx context.Context, recipe *models.Recipe, limit int) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).Where("id <> ?", recipe.ID).Limit(limit)
	if r.db.Dialector.Name() == "postgres" && recipe.Embedding != nil {
		q = q.Where("embedding IS NOT NULL").Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <-> ?",
			Vars: []interface{}{*recipe.Embedding},
		}})
	} else {
		q = q.Where("LOWER(cuisine_name) = ?", strings.ToLower(recipe.CuisineName)).Order("created_at DESC")
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to find similar recipes: %w", err)
	}
	return recipes, nil
}

// Delete soft-deletes a recipe.
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RecipeRepository) eligible(ctx context.Context, f EligibilityFilter) *gorm.DB {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.Recipe{}).
		Where("recipes.recipe_type = ? AND recipes.meal_type = ?", f.RecipeType, f.MealType)
	if f.Cuisine != "" {
		q = q.Where("LOWER(recipes.cuisine_name) = ?", strings.ToLower(f.Cuisine))
	}
	if len(f.ExcludeAllergens) > 0 {
		tainted := db.Table("recipe_ingredients").
			Select("recipe_ingredients.recipe_id").
			Joins("JOIN ingredient_allergens ON ingredient_allergens.ingredient_id = recipe_ingredients.ingredient_id").
			Where("ingredient_allergens.allergen_type IN ?", f.ExcludeAllergens)
		q = q.Where("recipes.id NOT IN (?)", tainted)
	}
	if len(f.ExcludeIDs) > 0 {
		q = q.Where("recipes.id NOT IN ?", f.ExcludeIDs)
	}
	return q
}

// CountEligible counts the recipes matching f.
func (r *RecipeRepository) CountEligible(ctx context.Context, f EligibilityFilter) (int64, error) {
	var n int64
	if err := r.eligible(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count eligible recipes: %w", err)
	}
	return n, nil
}

// FindEligibleAt returns the recipe at offset in a stable ordering of the
// recipes matching f.
func (r *RecipeRepository) FindEligibleAt(ctx context.Context, f EligibilityFilter, offset int) (*models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.eligible(ctx, f).Order("recipes.id").Offset(offset).Limit(1).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch eligible recipe: %w", err)
	}
	if len(recipes) == 0 {
		return nil, ErrNotFound
	}
	return &recipes[0], nil
}
