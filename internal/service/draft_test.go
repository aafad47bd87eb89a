package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

func TestDraftStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := service.NewDraftStore(client, time.Hour)
	ctx := context.Background()

	draft := &service.Draft{
		OwnerID: uuid.New(),
		Query:   "soup",
		Recipe: &recipe.Payload{
			Name:        "Soup",
			MealType:    models.MealTypeLunch,
			RecipeType:  models.RecipeTypeStarter,
			CuisineName: "French",
			Steps:       []string{"Boil !1.00:LITER:water!."},
			Ingredients: []recipe.Ingredient{{ID: "water", Name: "Water", Amount: 1, Unit: models.UnitLiter}},
		},
	}
	require.NoError(t, store.Save(ctx, draft))
	require.NotEmpty(t, draft.ID)
	assert.True(t, mr.Exists("recipe:draft:"+draft.ID))
	assert.Equal(t, time.Hour, mr.TTL("recipe:draft:"+draft.ID))

	got, err := store.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.OwnerID, got.OwnerID)
	assert.Equal(t, draft.Recipe, got.Recipe)

	require.NoError(t, store.Delete(ctx, draft.ID))
	assert.ErrorIs(t, store.Delete(ctx, draft.ID), service.ErrDraftNotFound)
}

func TestDraftStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store := service.NewDraftStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	draft := &service.Draft{OwnerID: uuid.New()}
	require.NoError(t, store.Save(ctx, draft))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}
