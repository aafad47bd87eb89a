package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// CreateUser stores a user with the given allergens.
func CreateUser(t *testing.T, db *gorm.DB, allergens ...models.AllergenType) *models.User {
	t.Helper()
	id := uuid.New()
	user := &models.User{
		ID:           id,
		Name:         "user-" + id.String()[:8],
		Email:        id.String()[:8] + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         models.RolePlain,
	}
	for _, a := range allergens {
		user.Allergens = append(user.Allergens, models.Allergen{UserID: id, AllergenType: a, SeverityLevel: 1})
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// RecipeFixture describes a recipe to store. Empty fields get defaults:
// a main dinner of Italian cuisine.
type RecipeFixture struct {
	Name        string
	MealType    models.MealType
	RecipeType  models.RecipeType
	Cuisine     string
	Ingredients []models.Ingredient
	Steps       []string
}

// CreateRecipe stores a recipe owned by ownerID together with its
// ingredients. Each ingredient is used at 1 PIECE.
func CreateRecipe(t *testing.T, db *gorm.DB, ownerID uuid.UUID, f RecipeFixture) *models.Recipe {
	t.Helper()
	if f.Name == "" {
		f.Name = "Recipe " + uuid.NewString()[:8]
	}
	if f.MealType == "" {
		f.MealType = models.MealTypeDinner
	}
	if f.RecipeType == "" {
		f.RecipeType = models.RecipeTypeMain
	}
	if f.Cuisine == "" {
		f.Cuisine = "Italian"
	}
	if f.Steps == nil {
		f.Steps = []string{"Cook everything."}
	}

	for _, ing := range f.Ingredients {
		if err := db.Where(models.Ingredient{ID: ing.ID}).FirstOrCreate(&models.Ingredient{ID: ing.ID, Name: ing.Name}).Error; err != nil {
			t.Fatalf("failed to create ingredient: %v", err)
		}
		for _, a := range ing.Allergens {
			tag := models.IngredientAllergen{IngredientID: ing.ID, AllergenType: a.AllergenType}
			if err := db.Where(tag).FirstOrCreate(&tag).Error; err != nil {
				t.Fatalf("failed to tag ingredient: %v", err)
			}
		}
	}

	recipe := &models.Recipe{
		Name:            f.Name,
		MealType:        f.MealType,
		RecipeType:      f.RecipeType,
		CuisineName:     f.Cuisine,
		PreparationTime: 30,
		Steps:           f.Steps,
		OwnerID:         ownerID,
	}
	if err := db.Omit("Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	for _, ing := range f.Ingredients {
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ing.ID, Amount: 1, Unit: models.UnitPiece}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("failed to link ingredient: %v", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, row)
	}
	return recipe
}

// Ingredient builds an ingredient value tagged with allergens.
func Ingredient(id string, allergens ...models.AllergenType) models.Ingredient {
	ing := models.Ingredient{ID: id, Name: id}
	for _, a := range allergens {
		ing.Allergens = append(ing.Allergens, models.IngredientAllergen{IngredientID: id, AllergenType: a})
	}
	return ing
}
