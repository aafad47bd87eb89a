package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
)

// RecipeService handles recipe operations
type RecipeService struct {
	recipes *repository.RecipeRepository
	drafts  *DraftStore
	log     *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(recipes *repository.RecipeRepository, drafts *DraftStore, log *zap.Logger) *RecipeService {
	return &RecipeService{
		recipes: recipes,
		drafts:  drafts,
		log:     log,
	}
}

// CreateFromRaw validates a loosely typed recipe object and stores it.
// Nothing is written when validation fails.
func (s *RecipeService) CreateFromRaw(ctx context.Context, ownerID uuid.UUID, raw map[string]interface{}) (*models.Recipe, error) {
	payload, err := recipe.ValidateRecipe(raw)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, ownerID, payload)
}

// Create stores a validated recipe for ownerID.
func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, p *recipe.Payload) (*models.Recipe, error) {
	r, ingredients := toModel(ownerID, p)
	vec := RecipeEmbedding(r)
	r.Embedding = &vec

	if err := s.recipes.Create(ctx, r, ingredients); err != nil {
		return nil, err
	}
	s.log.Info("recipe created",
		zap.String("recipe_id", r.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.Int("ingredients", len(r.Ingredients)),
	)
	return s.Get(ctx, r.ID)
}

// toModel maps a payload to the stored shape. Ingredients listed twice
// under the same id are merged: amounts in the same unit add up, otherwise
// the first listing wins.
func toModel(ownerID uuid.UUID, p *recipe.Payload) (*models.Recipe, []models.Ingredient) {
	r := &models.Recipe{
		Name:            p.Name,
		Description:     p.Description,
		MealType:        p.MealType,
		RecipeType:      p.RecipeType,
		CuisineName:     p.CuisineName,
		PreparationTime: p.PreparationTime,
		Steps:           models.StringList(p.Steps),
		OwnerID:         ownerID,
	}
	if p.Persons != nil {
		r.Persons = *p.Persons
	}

	index := map[string]int{}
	var ingredients []models.Ingredient
	for _, ing := range p.Ingredients {
		if i, ok := index[ing.ID]; ok {
			if r.Ingredients[i].Unit == ing.Unit {
				r.Ingredients[i].Amount += ing.Amount
			}
			if ing.AllergenType != nil {
				ingredients[i].Allergens = append(ingredients[i].Allergens,
					models.IngredientAllergen{IngredientID: ing.ID, AllergenType: *ing.AllergenType})
			}
			continue
		}
		index[ing.ID] = len(r.Ingredients)

		name := ing.Name
		if name == "" {
			name = ing.ID
		}
		stored := models.Ingredient{ID: ing.ID, Name: name}
		if ing.AllergenType != nil {
			stored.Allergens = []models.IngredientAllergen{{IngredientID: ing.ID, AllergenType: *ing.AllergenType}}
		}
		ingredients = append(ingredients, stored)
		r.Ingredients = append(r.Ingredients, models.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       ing.Amount,
			Unit:         ing.Unit,
		})
	}
	return r, ingredients
}

func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	r, err := s.recipes.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return r, nil
}

func (s *RecipeService) List(ctx context.Context, f repository.ListFilter) ([]models.Recipe, int64, error) {
	return s.recipes.List(ctx, f)
}

// Similar returns up to limit recipes resembling the given one.
func (s *RecipeService) Similar(ctx context.Context, id uuid.UUID, limit int) ([]models.Recipe, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.recipes.Similar(ctx, r, limit)
}

// Delete removes a recipe. Only its owner or an admin may do so.
func (s *RecipeService) Delete(ctx context.Context, actorID uuid.UUID, actorRole models.Role, id uuid.UUID) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.OwnerID != actorID && actorRole != models.RoleAdmin {
		return ErrForbidden
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	s.log.Info("recipe deleted", zap.String("recipe_id", id.String()), zap.String("actor_id", actorID.String()))
	return nil
}

// IngredientProgress is how far along one ingredient is while cooking.
type IngredientProgress struct {
	IngredientID string      `json:"ingredient_id"`
	Name         string      `json:"name"`
	Unit         models.Unit `json:"unit"`
	Used         float64     `json:"used"`
	Required     float64     `json:"required"`
}

// Progress describes a recipe cooked up to and including Step.
type Progress struct {
	RecipeID    uuid.UUID            `json:"recipe_id"`
	Step        int                  `json:"step"`
	TotalSteps  int                  `json:"total_steps"`
	Done        bool                 `json:"done"`
	Ingredients []IngredientProgress `json:"ingredients"`
}

// Progress reports how much of each ingredient has gone in once step (zero
// based) is finished.
func (s *RecipeService) Progress(ctx context.Context, id uuid.UUID, step int) (*Progress, error) {
	if step < 0 {
		return nil, fmt.Errorf("%w: step must not be negative", ErrInvalidInput)
	}
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if step >= len(r.Steps) {
		step = len(r.Steps) - 1
	}

	type key struct {
		id   string
		unit models.Unit
	}
	required := map[key]float64{}
	names := map[string]string{}
	for _, ri := range r.Ingredients {
		required[key{ri.IngredientID, ri.Unit}] += ri.Amount
		if ri.Ingredient != nil {
			names[ri.IngredientID] = ri.Ingredient.Name
		}
	}

	out := &Progress{
		RecipeID:    r.ID,
		Step:        step,
		TotalSteps:  len(r.Steps),
		Done:        step == len(r.Steps)-1,
		Ingredients: []IngredientProgress{},
	}
	for _, u := range recipe.UsedThrough(r.Steps, step) {
		out.Ingredients = append(out.Ingredients, IngredientProgress{
			IngredientID: u.IngredientID,
			Name:         names[u.IngredientID],
			Unit:         u.Unit,
			Used:         u.Used,
			Required:     required[key{u.IngredientID, u.Unit}],
		})
	}
	return out, nil
}

// FinalizeDraft stores an AI draft as a recipe of its owner and discards
// the draft.
func (s *RecipeService) FinalizeDraft(ctx context.Context, ownerID uuid.UUID, draftID string) (*models.Recipe, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.OwnerID != ownerID || draft.Recipe == nil {
		return nil, ErrDraftNotFound
	}

	r, err := s.Create(ctx, ownerID, draft.Recipe)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, draftID); err != nil && !errors.Is(err, ErrDraftNotFound) {
		s.log.Warn("failed to discard finalized draft", zap.String("draft_id", draftID), zap.Error(err))
	}
	return r, nil
}
