package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
)

// RecipeGenerator produces a validated recipe for a free-text request.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, query string, allergens []models.AllergenType) (*recipe.Payload, int, error)
}

// AIService turns generated recipes into drafts owned by the requesting user.
type AIService struct {
	generator RecipeGenerator
	drafts    *DraftStore
	log       *zap.Logger
}

func NewAIService(generator RecipeGenerator, drafts *DraftStore, log *zap.Logger) *AIService {
	return &AIService{generator: generator, drafts: drafts, log: log}
}

// Generate creates a draft for query that avoids the user's allergens.
func (s *AIService) Generate(ctx context.Context, user *models.User, query string) (*Draft, error) {
	payload, attempts, err := s.generator.GenerateRecipe(ctx, query, user.AllergenSet())
	if err != nil {
		return nil, err
	}
	draft := &Draft{
		OwnerID:  user.ID,
		Query:    query,
		Recipe:   payload,
		Attempts: attempts,
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}
	s.log.Info("draft created",
		zap.String("draft_id", draft.ID),
		zap.String("user_id", user.ID.String()),
		zap.Int("attempts", attempts),
	)
	return draft, nil
}

// GetDraft returns a draft owned by ownerID. Drafts of other users are
// reported as missing.
func (s *AIService) GetDraft(ctx context.Context, ownerID uuid.UUID, id string) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.OwnerID != ownerID {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

func (s *AIService) DiscardDraft(ctx context.Context, ownerID uuid.UUID, id string) error {
	if _, err := s.GetDraft(ctx, ownerID, id); err != nil {
		return err
	}
	return s.drafts.Delete(ctx, id)
}
