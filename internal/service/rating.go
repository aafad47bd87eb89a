package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// Rate records ownerID's score for a recipe, replacing any earlier one.
func (s *RatingService) Rate(ctx context.Context, recipeID, ownerID uuid.UUID, score float64, message string) (*models.Rating, error) {
	if score < 0 || score > 5 {
		return nil, fmt.Errorf("%w: score must be between 0 and 5", ErrInvalidInput)
	}
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check recipe: %w", err)
	}
	if count == 0 {
		return nil, ErrRecipeNotFound
	}

	rating := models.Rating{
		RecipeID:  recipeID,
		OwnerID:   ownerID,
		Score:     score,
		Message:   message,
		UpdatedAt: time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "message", "updated_at"}),
	}).Create(&rating).Error; err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	var stored models.Rating
	if err := db.Where("recipe_id = ? AND owner_id = ?", recipeID, ownerID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to reload rating: %w", err)
	}
	return &stored, nil
}

// UserScore sums the ratings received by every live recipe userID owns.
func (s *RatingService) UserScore(ctx context.Context, userID uuid.UUID) (float64, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find user: %w", err)
	}

	var score float64
	err = s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(SUM(ratings.score), 0)").
		Joins("JOIN recipes ON recipes.id = ratings.recipe_id").
		Where("recipes.owner_id = ? AND recipes.deleted_at IS NULL", userID).
		Scan(&score).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ratings: %w", err)
	}
	return score, nil
}
