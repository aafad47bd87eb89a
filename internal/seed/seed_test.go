package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-planner/backend/internal/mocks"
	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/testhelpers"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

const recipesJSON = `[
	{
		"name": "Pancakes",
		"mealType": "BREAKFAST",
		"preparationTime": 20,
		"cuisineName": "American",
		"ingredients": [
			{"name": "Flour", "amount": 200, "unit": "GRAM", "allergenType": "GLUTEN"},
			{"name": "Egg", "amount": 2, "unit": "PIECE", "allergenType": "EGG"}
		],
		"steps": ["Whisk !200:GRAM:flour! with !2:PIECE:egg!.", "Fry in a hot pan."]
	},
	{
		"name": "Nothing",
		"preparationTime": 5,
		"cuisineName": "None",
		"steps": []
	}
]`

func setup(t *testing.T) (*gorm.DB, *Seeder, *observer.ObservedLogs) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	auth := service.NewAuthService(db, "seed-secret", 0, zap.NewNop())
	recipes := service.NewRecipeService(repository.NewRecipeRepository(db), nil, zap.NewNop())
	return db, New(db, auth, recipes, log), logs
}

func TestUsers(t *testing.T) {
	db, s, _ := setup(t)
	ctx := context.Background()

	seeds, err := LoadUsers(strings.NewReader(`[
		{"name": "Admin", "email": "Admin@Example.com", "password": "adminpass123", "admin": true},
		{"name": "Jane", "email": "jane@example.com", "password": "janepass123", "allergens": [{"type": "peanut", "severity": 4}]}
	]`))
	require.NoError(t, err)

	users, err := s.Users(ctx, seeds)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.Equal(t, "admin@example.com", users[0].Email)
	require.Len(t, users[1].Allergens, 1)
	assert.Equal(t, models.AllergenPeanut, users[1].Allergens[0].AllergenType)
	assert.Equal(t, 4, users[1].Allergens[0].SeverityLevel)

	again, err := s.Users(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, again[0].ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUsersRejectsUnknownAllergen(t *testing.T) {
	_, s, _ := setup(t)

	_, err := s.Users(context.Background(), []UserSeed{{
		Name: "Bob", Email: "bob@example.com", Password: "bobpass123",
		Allergens: []types.AllergenEntry{{Type: "moonbeam"}},
	}})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRecipesSkipsInvalid(t *testing.T) {
	db, s, logs := setup(t)
	owner := testhelpers.CreateUser(t, db)

	raws, err := LoadRecipes(strings.NewReader(recipesJSON))
	require.NoError(t, err)

	res, err := s.Recipes(context.Background(), owner.ID, raws)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Rejected: 1}, res)

	rejected := logs.FilterMessage("recipe rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, int64(1), rejected[0].ContextMap()["index"])

	var stored models.Recipe
	require.NoError(t, db.Preload("Ingredients").First(&stored, "name = ?", "Pancakes").Error)
	assert.Equal(t, models.MealTypeBreakfast, stored.MealType)
	assert.Len(t, stored.Ingredients, 2)
}

func TestGenerate(t *testing.T) {
	db, s, _ := setup(t)
	owner := testhelpers.CreateUser(t, db)

	raws, err := LoadRecipes(strings.NewReader(recipesJSON))
	require.NoError(t, err)
	payload, err := recipe.ValidateRecipe(raws[0])
	require.NoError(t, err)

	gen := new(mocks.MockRecipeGenerator)
	gen.On("GenerateRecipe", mock.Anything, "pancakes please", mock.Anything).Return(payload, 1, nil)
	gen.On("GenerateRecipe", mock.Anything, "something impossible", mock.Anything).Return(nil, 3, errors.New("recipe generation failed after 3 attempts"))

	res, err := s.Generate(context.Background(), gen, owner.ID, []string{"pancakes please", "something impossible"})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Rejected: 1}, res)
	gen.AssertExpectations(t)
}
