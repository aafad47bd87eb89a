package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

var (
	_ service.IRecipeService = (*MockRecipeService)(nil)
	_ service.IImageService  = (*MockImageService)(nil)
	_ service.IAIService     = (*MockAIService)(nil)
)

// MockRecipeService is a mock implementation of the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateFromRaw(ctx context.Context, ownerID uuid.UUID, raw map[string]interface{}) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, f repository.ListFilter) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Similar(ctx context.Context, id uuid.UUID, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actorID uuid.UUID, actorRole models.Role, id uuid.UUID) error {
	args := m.Called(ctx, actorID, actorRole, id)
	return args.Error(0)
}

func (m *MockRecipeService) Progress(ctx context.Context, id uuid.UUID, step int) (*service.Progress, error) {
	args := m.Called(ctx, id, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Progress), args.Error(1)
}

func (m *MockRecipeService) FinalizeDraft(ctx context.Context, ownerID uuid.UUID, draftID string) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// MockImageService is a mock implementation of the ImageService interface
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadRecipeImage(ctx context.Context, actorID uuid.UUID, actorRole models.Role, recipeID uuid.UUID, contentType string, body io.Reader) (*models.RecipeImage, error) {
	args := m.Called(ctx, actorID, actorRole, recipeID, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeImage), args.Error(1)
}

func (m *MockImageService) ImageURL(ctx context.Context, recipeID, imageID uuid.UUID, ttl time.Duration) (string, error) {
	args := m.Called(ctx, recipeID, imageID, ttl)
	return args.String(0), args.Error(1)
}

// MockAIService is a mock implementation of the AIService interface
type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) Generate(ctx context.Context, user *models.User, query string) (*service.Draft, error) {
	args := m.Called(ctx, user, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Draft), args.Error(1)
}

func (m *MockAIService) GetDraft(ctx context.Context, ownerID uuid.UUID, id string) (*service.Draft, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Draft), args.Error(1)
}

func (m *MockAIService) DiscardDraft(ctx context.Context, ownerID uuid.UUID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockRecipeGenerator is a mock implementation of the RecipeGenerator interface
type MockRecipeGenerator struct {
	mock.Mock
}

var _ service.RecipeGenerator = (*MockRecipeGenerator)(nil)

func (m *MockRecipeGenerator) GenerateRecipe(ctx context.Context, query string, allergens []models.AllergenType) (*recipe.Payload, int, error) {
	args := m.Called(ctx, query, allergens)
	p, _ := args.Get(0).(*recipe.Payload)
	return p, args.Int(1), args.Error(2)
}
