package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// FollowService manages who follows whom.
type FollowService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewFollowService(db *gorm.DB, log *zap.Logger) *FollowService {
	return &FollowService{db: db, log: log}
}

// Follow makes followerID follow followeeID. Following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: users cannot follow themselves", ErrInvalidInput)
	}
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", followeeID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}

	follow := models.UserFollow{FollowerID: followerID, FolloweeID: followeeID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	s.log.Info("user followed",
		zap.String("follower_id", followerID.String()),
		zap.String("followee_id", followeeID.String()),
	)
	return nil
}

// Unfollow removes the relation if there is one.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.UserFollow{}).Error
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

// Following lists the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	return s.related(ctx, userID, "user_follows.followee_id = users.id", "user_follows.follower_id = ?")
}

// Followers lists the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	return s.related(ctx, userID, "user_follows.follower_id = users.id", "user_follows.followee_id = ?")
}

func (s *FollowService) related(ctx context.Context, userID uuid.UUID, on, where string) ([]models.User, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	users := []models.User{}
	err := db.Joins("JOIN user_follows ON "+on).
		Where(where, userID).
		Order("user_follows.created_at, users.name").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
