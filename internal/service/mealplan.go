package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
)

// DaysPerWeek is the number of dinners a filled plan holds per week.
const DaysPerWeek = 7

type MealPlanService struct {
	plans     *repository.MealPlanRepository
	recipes   *repository.RecipeRepository
	weekStart time.Weekday
	intn      func(n int) int
	log       *zap.Logger
}

func NewMealPlanService(plans *repository.MealPlanRepository, recipes *repository.RecipeRepository, weekStart time.Weekday, log *zap.Logger) *MealPlanService {
	return &MealPlanService{
		plans:     plans,
		recipes:   recipes,
		weekStart: weekStart,
		intn:      rand.Intn,
		log:       log,
	}
}

// WithRand replaces the source of random offsets used when sampling.
func (s *MealPlanService) WithRand(intn func(n int) int) *MealPlanService {
	s.intn = intn
	return s
}

// WeekOf returns the calendar days of the week containing ref, as UTC
// midnights, starting on the configured first weekday.
func (s *MealPlanService) WeekOf(ref time.Time) []time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) - int(s.weekStart) + DaysPerWeek) % DaysPerWeek
	start := day.AddDate(0, 0, -back)

	days := make([]time.Time, DaysPerWeek)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// GetPlan returns the user's plan, or an empty unsaved one.
func (s *MealPlanService) GetPlan(ctx context.Context, ownerID uuid.UUID) (*models.MealPlan, error) {
	plan, err := s.plans.FindByOwner(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.MealPlan{OwnerID: ownerID, Public: true, Recipes: []models.MealPlanRecipe{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	return plan, nil
}

// FillWeek gives every day of the week containing ref a main-course dinner.
// Days that already have one are left alone. Missing days get distinct
// random recipes that are not yet on the plan and contain none of the
// user's allergens. When too few recipes qualify, only some days are
// filled. A plan with nothing missing is returned without writing.
func (s *MealPlanService) FillWeek(ctx context.Context, user *models.User, ref time.Time) (*models.MealPlan, error) {
	plan, err := s.GetPlan(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	days := s.WeekOf(ref)
	inWeek := make(map[string]bool, len(days))
	for _, d := range days {
		inWeek[d.Format(models.DayLayout)] = true
	}
	covered := map[string]bool{}
	for _, e := range plan.Recipes {
		if e.IsMainDinner() && inWeek[e.Day()] {
			covered[e.Day()] = true
		}
	}

	var missing []time.Time
	for _, d := range days {
		if !covered[d.Format(models.DayLayout)] {
			missing = append(missing, d)
		}
	}
	if len(missing) == 0 {
		return plan, nil
	}

	picks, err := s.sample(ctx, repository.EligibilityFilter{
		RecipeType:       models.RecipeTypeMain,
		MealType:         models.MealTypeDinner,
		ExcludeAllergens: user.AllergenSet(),
		ExcludeIDs:       plan.UsedRecipeIDs(),
	}, len(missing))
	if err != nil {
		return nil, err
	}
	if len(picks) == 0 {
		s.log.Warn("no eligible recipes to fill meal plan", zap.String("user_id", user.ID.String()))
		return plan, nil
	}

	entries := make([]models.MealPlanRecipe, len(picks))
	for i, r := range picks {
		entries[i] = models.MealPlanRecipe{
			Date:       datatypes.Date(missing[i]),
			MealType:   models.MealTypeDinner,
			RecipeType: models.RecipeTypeMain,
			RecipeID:   r.ID,
		}
	}
	filled, err := s.plans.AppendEntries(ctx, user.ID, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}
	s.log.Info("meal plan filled",
		zap.String("user_id", user.ID.String()),
		zap.Int("missing", len(missing)),
		zap.Int("added", len(entries)),
	)
	return filled, nil
}

// sample picks up to n distinct eligible recipes by drawing distinct random
// offsets into the eligible set.
func (s *MealPlanService) sample(ctx context.Context, f repository.EligibilityFilter, n int) ([]models.Recipe, error) {
	total, err := s.recipes.CountEligible(ctx, f)
	if err != nil {
		return nil, err
	}
	if int64(n) > total {
		n = int(total)
	}

	seen := make(map[int]bool, n)
	offsets := make([]int, 0, n)
	for len(offsets) < n {
		o := s.intn(int(total))
		if seen[o] {
			continue
		}
		seen[o] = true
		offsets = append(offsets, o)
	}

	picks := make([]models.Recipe, 0, n)
	for _, o := range offsets {
		r, err := s.recipes.FindEligibleAt(ctx, f, o)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		picks = append(picks, *r)
	}
	return picks, nil
}

// SetEntry puts recipeID on the plan for one meal. A main course replaces
// whatever main course was planned for that meal.
func (s *MealPlanService) SetEntry(ctx context.Context, ownerID uuid.UUID, date time.Time, mealType models.MealType, recipeType models.RecipeType, recipeID uuid.UUID) (*models.MealPlan, error) {
	if _, err := s.recipes.Get(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return s.plans.AppendEntries(ctx, ownerID, []models.MealPlanRecipe{{
		Date:       datatypes.Date(day),
		MealType:   mealType,
		RecipeType: recipeType,
		RecipeID:   recipeID,
	}})
}

func (s *MealPlanService) RemoveEntry(ctx context.Context, ownerID, entryID uuid.UUID) error {
	err := s.plans.DeleteEntry(ctx, ownerID, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEntryNotFound
	}
	return err
}
