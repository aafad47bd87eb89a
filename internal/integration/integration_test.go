package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-planner/backend/internal/api"
	"github.com/pageza/alchemorsel-planner/backend/internal/database"
	"github.com/pageza/alchemorsel-planner/backend/internal/middleware"
	"github.com/pageza/alchemorsel-planner/backend/internal/mocks"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/router"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/testhelpers"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

// newApp wires the real services over db the way cmd/api does, with the
// language model and object storage left out.
func newApp(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	recipeRepo := repository.NewRecipeRepository(db)
	drafts := service.NewDraftStore(client, 0)

	auth := service.NewAuthService(db, "integration-secret", 0, log)
	recipes := service.NewRecipeService(recipeRepo, drafts, log)
	plans := service.NewMealPlanService(repository.NewMealPlanRepository(db), recipeRepo, time.Monday, log)
	ratings := service.NewRatingService(db)
	fridge := service.NewFridgeService(db)

	h := router.Handlers{
		Auth:     api.NewAuthHandler(auth, ratings),
		Follows:  api.NewFollowHandler(service.NewFollowService(db, log)),
		Recipes:  api.NewRecipeHandler(recipes, ratings, fridge, new(mocks.MockImageService)),
		AI:       api.NewAIHandler(new(mocks.MockAIService), recipes, auth, middleware.NewAIRateLimiter(client, 5, log)),
		MealPlan: api.NewMealPlanHandler(plans, auth),
		Fridge:   api.NewFridgeHandler(fridge),
		Health: api.NewHealthHandler(map[string]api.HealthCheck{
			"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
			"redis":    func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}, log),
	}
	return router.SetupRouter(h, auth, nil, log)
}

type client struct {
	t     *testing.T
	app   http.Handler
	token string
}

func (c *client) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.app.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func dinner(name, ingredient, allergen string) map[string]interface{} {
	ing := map[string]interface{}{"name": ingredient, "amount": 200, "unit": "GRAM"}
	if allergen != "" {
		ing["allergenType"] = allergen
	}
	return map[string]interface{}{
		"name":            name,
		"mealType":        "DINNER",
		"recipeType":      "MAIN",
		"preparationTime": 30,
		"cuisineName":     "Fusion",
		"ingredients":     []interface{}{ing},
		"steps": []interface{}{
			fmt.Sprintf("Cook !200:GRAM:%s! until done.", ingredient),
			"Serve hot.",
		},
	}
}

type planEntry struct {
	ID       uuid.UUID `json:"id"`
	RecipeID uuid.UUID `json:"recipe_id"`
}

type planBody struct {
	Recipes []planEntry `json:"recipes"`
}

func runPlannerFlow(t *testing.T, db *gorm.DB) {
	app := newApp(t, db)
	anon := &client{t: t, app: app}

	var auth types.AuthResponse
	require.Equal(t, http.StatusCreated, anon.do(http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
		Name: "Cook", Email: "cook@example.com", Password: "cookpass123",
	}, &auth))
	require.NotEmpty(t, auth.Token)
	cook := &client{t: t, app: app, token: auth.Token}

	require.Equal(t, http.StatusOK, cook.do(http.MethodPut, "/api/v1/me/allergens", types.UpdateAllergensRequest{
		Allergens: []types.AllergenEntry{{Type: "peanut", Severity: 5}},
	}, nil))

	var safe []uuid.UUID
	for _, d := range []map[string]interface{}{
		dinner("Rice bowl", "rice", ""),
		dinner("Lentil stew", "lentils", ""),
		dinner("Roast potatoes", "potatoes", ""),
	} {
		var created struct {
			ID uuid.UUID `json:"id"`
		}
		require.Equal(t, http.StatusCreated, cook.do(http.MethodPost, "/api/v1/recipes", d, &created))
		safe = append(safe, created.ID)
	}
	var satay struct {
		ID uuid.UUID `json:"id"`
	}
	require.Equal(t, http.StatusCreated, cook.do(http.MethodPost, "/api/v1/recipes", dinner("Satay", "peanut", "PEANUT"), &satay))

	t.Run("invalid recipe is rejected", func(t *testing.T) {
		bad := dinner("Broken", "rice", "")
		bad["steps"] = []interface{}{}
		assert.Equal(t, http.StatusUnprocessableEntity, cook.do(http.MethodPost, "/api/v1/recipes", bad, nil))
	})

	t.Run("fill skips recipes with the user's allergens", func(t *testing.T) {
		var plan planBody
		require.Equal(t, http.StatusOK, cook.do(http.MethodPost, "/api/v1/mealplan/fill",
			types.FillMealPlanRequest{Date: "2026-10-14"}, &plan))
		require.Len(t, plan.Recipes, len(safe))
		for _, e := range plan.Recipes {
			assert.Contains(t, safe, e.RecipeID)
			assert.NotEqual(t, satay.ID, e.RecipeID)
		}

		var again planBody
		require.Equal(t, http.StatusOK, cook.do(http.MethodPost, "/api/v1/mealplan/fill",
			types.FillMealPlanRequest{Date: "2026-10-14"}, &again))
		assert.Len(t, again.Recipes, len(safe))

		require.Equal(t, http.StatusNoContent, cook.do(http.MethodDelete, "/api/v1/mealplan/entries/"+plan.Recipes[0].ID.String(), nil, nil))
		var after planBody
		require.Equal(t, http.StatusOK, cook.do(http.MethodGet, "/api/v1/mealplan", nil, &after))
		assert.Len(t, after.Recipes, len(safe)-1)
	})

	t.Run("ratings add up to the owner's score", func(t *testing.T) {
		score := 4.0
		require.Equal(t, http.StatusOK, cook.do(http.MethodPut, "/api/v1/recipes/"+safe[0].String()+"/rating",
			types.RateRecipeRequest{Score: &score}, nil))
		score = 3.0
		require.Equal(t, http.StatusOK, cook.do(http.MethodPut, "/api/v1/recipes/"+safe[0].String()+"/rating",
			types.RateRecipeRequest{Score: &score, Message: "changed my mind"}, nil))

		var resp types.UserScoreResponse
		require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/users/"+auth.User.ID.String()+"/score", nil, &resp))
		assert.Equal(t, 3.0, resp.Score)
	})

	t.Run("cooking uses up the fridge", func(t *testing.T) {
		amount := 500.0
		require.Equal(t, http.StatusOK, cook.do(http.MethodPut, "/api/v1/fridge",
			types.PutFridgeItemRequest{Ingredient: "Rice", Amount: &amount, Unit: "g"}, nil))

		var progress service.Progress
		require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/recipes/"+safe[0].String()+"/progress?step=0", nil, &progress))
		require.Len(t, progress.Ingredients, 1)
		assert.Equal(t, 200.0, progress.Ingredients[0].Used)

		var cooked struct {
			Items []struct {
				IngredientID string  `json:"ingredient_id"`
				Amount       float64 `json:"amount"`
			} `json:"items"`
		}
		require.Equal(t, http.StatusOK, cook.do(http.MethodPost, "/api/v1/recipes/"+safe[0].String()+"/cook", nil, &cooked))
		require.Len(t, cooked.Items, 1)
		assert.Equal(t, "rice", cooked.Items[0].IngredientID)
		assert.Equal(t, 300.0, cooked.Items[0].Amount)
	})

	t.Run("similar recipes exclude the recipe itself", func(t *testing.T) {
		var resp struct {
			Recipes []struct {
				ID uuid.UUID `json:"id"`
			} `json:"recipes"`
		}
		require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/recipes/"+safe[1].String()+"/similar", nil, &resp))
		assert.NotEmpty(t, resp.Recipes)
		for _, r := range resp.Recipes {
			assert.NotEqual(t, safe[1], r.ID)
		}
	})

	t.Run("followers", func(t *testing.T) {
		var fan types.AuthResponse
		require.Equal(t, http.StatusCreated, anon.do(http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
			Name: "Fan", Email: "fan@example.com", Password: "fanpass1234",
		}, &fan))
		follower := &client{t: t, app: app, token: fan.Token}
		followPath := "/api/v1/users/" + auth.User.ID.String() + "/follow"

		require.Equal(t, http.StatusNoContent, follower.do(http.MethodPut, followPath, nil, nil))
		require.Equal(t, http.StatusNoContent, follower.do(http.MethodPut, followPath, nil, nil))

		var resp struct {
			Users []struct {
				ID uuid.UUID `json:"id"`
			} `json:"users"`
		}
		require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/users/"+auth.User.ID.String()+"/followers", nil, &resp))
		require.Len(t, resp.Users, 1)
		assert.Equal(t, fan.User.ID, resp.Users[0].ID)

		require.Equal(t, http.StatusNoContent, follower.do(http.MethodDelete, followPath, nil, nil))
		require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/users/"+fan.User.ID.String()+"/following", nil, &resp))
		assert.Empty(t, resp.Users)
	})

	t.Run("only the owner deletes", func(t *testing.T) {
		var other types.AuthResponse
		require.Equal(t, http.StatusCreated, anon.do(http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
			Name: "Guest", Email: "guest@example.com", Password: "guestpass123",
		}, &other))
		guest := &client{t: t, app: app, token: other.Token}

		assert.Equal(t, http.StatusForbidden, guest.do(http.MethodDelete, "/api/v1/recipes/"+satay.ID.String(), nil, nil))
		assert.Equal(t, http.StatusNoContent, cook.do(http.MethodDelete, "/api/v1/recipes/"+satay.ID.String(), nil, nil))
		assert.Equal(t, http.StatusNotFound, anon.do(http.MethodGet, "/api/v1/recipes/"+satay.ID.String(), nil, nil))
	})

	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/health", nil, nil))
}

func TestPlannerFlowSQLite(t *testing.T) {
	runPlannerFlow(t, testhelpers.SetupTestDB(t))
}

func TestPlannerFlowPostgres(t *testing.T) {
	runPlannerFlow(t, testhelpers.SetupPostgres(t))
}
