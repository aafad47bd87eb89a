// Package seed loads demo users and recipes into a fresh database.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

// UserSeed describes one account to create.
type UserSeed struct {
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	Password  string                `json:"password"`
	Admin     bool                  `json:"admin"`
	Allergens []types.AllergenEntry `json:"allergens"`
}

// RecipeStore stores recipes, either raw or already validated.
type RecipeStore interface {
	CreateFromRaw(ctx context.Context, ownerID uuid.UUID, raw map[string]interface{}) (*models.Recipe, error)
	Create(ctx context.Context, ownerID uuid.UUID, p *recipe.Payload) (*models.Recipe, error)
}

// Result counts what a recipe seeding run did.
type Result struct {
	Created  int
	Rejected int
}

type Seeder struct {
	db      *gorm.DB
	auth    service.IAuthService
	recipes RecipeStore
	log     *zap.Logger
}

func New(db *gorm.DB, auth service.IAuthService, recipes RecipeStore, log *zap.Logger) *Seeder {
	return &Seeder{db: db, auth: auth, recipes: recipes, log: log}
}

// Users creates the given accounts. Accounts whose email is already taken
// are left untouched and returned as they are.
func (s *Seeder) Users(ctx context.Context, seeds []UserSeed) ([]*models.User, error) {
	users := make([]*models.User, 0, len(seeds))
	for _, us := range seeds {
		user, err := s.auth.Register(ctx, us.Name, us.Email, us.Password)
		if errors.Is(err, service.ErrUserExists) {
			existing, err := s.findByEmail(ctx, us.Email)
			if err != nil {
				return nil, err
			}
			s.log.Info("user already exists, skipping", zap.String("email", us.Email))
			users = append(users, existing)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", us.Email, err)
		}

		if us.Admin {
			if err := s.db.WithContext(ctx).Model(user).Update("role", models.RoleAdmin).Error; err != nil {
				return nil, fmt.Errorf("failed to promote %s: %w", us.Email, err)
			}
		}
		if len(us.Allergens) > 0 {
			if _, err := s.auth.UpdateAllergens(ctx, user.ID, us.Allergens); err != nil {
				return nil, fmt.Errorf("failed to set allergens of %s: %w", us.Email, err)
			}
		}
		user, err = s.auth.GetUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		s.log.Info("user created", zap.String("email", user.Email), zap.String("role", string(user.Role)))
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Allergens").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", email, err)
	}
	return &user, nil
}

// Recipes stores each raw recipe for ownerID. Recipes that fail validation
// are logged with the offending object and skipped.
func (s *Seeder) Recipes(ctx context.Context, ownerID uuid.UUID, raws []map[string]interface{}) (Result, error) {
	var res Result
	for i, raw := range raws {
		r, err := s.recipes.CreateFromRaw(ctx, ownerID, raw)
		if verr, ok := recipe.AsValidationError(err); ok {
			s.log.Warn("recipe rejected",
				zap.Int("index", i),
				zap.String("reason", verr.Message),
				zap.String("details", verr.Details()),
			)
			res.Rejected++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to store recipe %d: %w", i, err)
		}
		s.log.Info("recipe created", zap.String("recipe_id", r.ID.String()), zap.String("name", r.Name))
		res.Created++
	}
	return res, nil
}

// Generate asks gen for one recipe per prompt and stores the results.
// Prompts the generator gives up on are counted as rejected.
func (s *Seeder) Generate(ctx context.Context, gen service.RecipeGenerator, ownerID uuid.UUID, prompts []string) (Result, error) {
	var res Result
	for _, prompt := range prompts {
		payload, attempts, err := gen.GenerateRecipe(ctx, prompt, nil)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			s.log.Warn("generation failed", zap.String("prompt", prompt), zap.Error(err))
			res.Rejected++
			continue
		}
		r, err := s.recipes.Create(ctx, ownerID, payload)
		if err != nil {
			return res, fmt.Errorf("failed to store generated recipe: %w", err)
		}
		s.log.Info("recipe generated",
			zap.String("recipe_id", r.ID.String()),
			zap.String("name", r.Name),
			zap.Int("attempts", attempts),
		)
		res.Created++
	}
	return res, nil
}

// LoadRecipes reads a JSON array of recipe objects.
func LoadRecipes(r io.Reader) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raws []map[string]interface{}
	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return raws, nil
}

// LoadUsers reads a JSON array of user seeds.
func LoadUsers(r io.Reader) ([]UserSeed, error) {
	var seeds []UserSeed
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return seeds, nil
}
