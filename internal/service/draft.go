package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
)

// Draft is a validated AI-generated recipe waiting for its owner to keep
// or discard it.
type Draft struct {
	ID        string          `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Query     string          `json:"query"`
	Recipe    *recipe.Payload `json:"recipe"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"created_at"`
}

// DraftStore keeps drafts in redis until they expire.
type DraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DraftStore{redis: client, ttl: ttl}
}

func draftKey(id string) string {
	return fmt.Sprintf("recipe:draft:%s", id)
}

// Save assigns the draft an id if it has none and stores it.
func (s *DraftStore) Save(ctx context.Context, draft *Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

func (s *DraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *DraftStore) Delete(ctx context.Context, id string) error {
	n, err := s.redis.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}
