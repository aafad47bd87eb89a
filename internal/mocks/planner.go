package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

var (
	_ service.IMealPlanService = (*MockMealPlanService)(nil)
	_ service.IFridgeService   = (*MockFridgeService)(nil)
)

// MockMealPlanService is a mock implementation of the MealPlanService interface
type MockMealPlanService struct {
	mock.Mock
}

func (m *MockMealPlanService) GetPlan(ctx context.Context, ownerID uuid.UUID) (*models.MealPlan, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}

func (m *MockMealPlanService) FillWeek(ctx context.Context, user *models.User, ref time.Time) (*models.MealPlan, error) {
	args := m.Called(ctx, user, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}

func (m *MockMealPlanService) SetEntry(ctx context.Context, ownerID uuid.UUID, date time.Time, mealType models.MealType, recipeType models.RecipeType, recipeID uuid.UUID) (*models.MealPlan, error) {
	args := m.Called(ctx, ownerID, date, mealType, recipeType, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}

func (m *MockMealPlanService) RemoveEntry(ctx context.Context, ownerID, entryID uuid.UUID) error {
	args := m.Called(ctx, ownerID, entryID)
	return args.Error(0)
}

// MockFridgeService is a mock implementation of the FridgeService interface
type MockFridgeService struct {
	mock.Mock
}

func (m *MockFridgeService) List(ctx context.Context, userID uuid.UUID) ([]models.FridgeItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FridgeItem), args.Error(1)
}

func (m *MockFridgeService) Put(ctx context.Context, userID uuid.UUID, name string, amount float64, unit string) (*models.FridgeItem, error) {
	args := m.Called(ctx, userID, name, amount, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FridgeItem), args.Error(1)
}

func (m *MockFridgeService) Remove(ctx context.Context, userID uuid.UUID, ingredientID string) error {
	args := m.Called(ctx, userID, ingredientID)
	return args.Error(0)
}

func (m *MockFridgeService) Cook(ctx context.Context, userID, recipeID uuid.UUID) ([]models.FridgeItem, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FridgeItem), args.Error(1)
}
