package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateAllergens(ctx context.Context, userID uuid.UUID, entries []types.AllergenEntry) (*models.User, error)
}

// IFollowService defines the interface for follower relations
type IFollowService interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Following(ctx context.Context, userID uuid.UUID) ([]models.User, error)
	Followers(ctx context.Context, userID uuid.UUID) ([]models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateFromRaw(ctx context.Context, ownerID uuid.UUID, raw map[string]interface{}) (*models.Recipe, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, f repository.ListFilter) ([]models.Recipe, int64, error)
	Similar(ctx context.Context, id uuid.UUID, limit int) ([]models.Recipe, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole models.Role, id uuid.UUID) error
	Progress(ctx context.Context, id uuid.UUID, step int) (*Progress, error)
	FinalizeDraft(ctx context.Context, ownerID uuid.UUID, draftID string) (*models.Recipe, error)
}

// IAIService defines the interface for AI recipe drafts
type IAIService interface {
	Generate(ctx context.Context, user *models.User, query string) (*Draft, error)
	GetDraft(ctx context.Context, ownerID uuid.UUID, id string) (*Draft, error)
	DiscardDraft(ctx context.Context, ownerID uuid.UUID, id string) error
}

// IMealPlanService defines the interface for meal plan operations
type IMealPlanService interface {
	GetPlan(ctx context.Context, ownerID uuid.UUID) (*models.MealPlan, error)
	FillWeek(ctx context.Context, user *models.User, ref time.Time) (*models.MealPlan, error)
	SetEntry(ctx context.Context, ownerID uuid.UUID, date time.Time, mealType models.MealType, recipeType models.RecipeType, recipeID uuid.UUID) (*models.MealPlan, error)
	RemoveEntry(ctx context.Context, ownerID, entryID uuid.UUID) error
}

// IRatingService defines the interface for rating operations
type IRatingService interface {
	Rate(ctx context.Context, recipeID, ownerID uuid.UUID, score float64, message string) (*models.Rating, error)
	UserScore(ctx context.Context, userID uuid.UUID) (float64, error)
}

// IFridgeService defines the interface for fridge operations
type IFridgeService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.FridgeItem, error)
	Put(ctx context.Context, userID uuid.UUID, name string, amount float64, unit string) (*models.FridgeItem, error)
	Remove(ctx context.Context, userID uuid.UUID, ingredientID string) error
	Cook(ctx context.Context, userID, recipeID uuid.UUID) ([]models.FridgeItem, error)
}

// IImageService defines the interface for recipe image operations
type IImageService interface {
	UploadRecipeImage(ctx context.Context, actorID uuid.UUID, actorRole models.Role, recipeID uuid.UUID, contentType string, body io.Reader) (*models.RecipeImage, error)
	ImageURL(ctx context.Context, recipeID, imageID uuid.UUID, ttl time.Duration) (string, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IFollowService   = (*FollowService)(nil)
	_ IRecipeService   = (*RecipeService)(nil)
	_ IAIService       = (*AIService)(nil)
	_ IMealPlanService = (*MealPlanService)(nil)
	_ IRatingService   = (*RatingService)(nil)
	_ IFridgeService   = (*FridgeService)(nil)
	_ IImageService    = (*ImageService)(nil)
	_ RecipeGenerator  = (*LLMService)(nil)
)
