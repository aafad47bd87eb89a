package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
)

type FridgeService struct {
	db *gorm.DB
}

func NewFridgeService(db *gorm.DB) *FridgeService {
	return &FridgeService{db: db}
}

func (s *FridgeService) List(ctx context.Context, userID uuid.UUID) ([]models.FridgeItem, error) {
	return listFridge(s.db.WithContext(ctx), userID)
}

func listFridge(db *gorm.DB, userID uuid.UUID) ([]models.FridgeItem, error) {
	items := []models.FridgeItem{}
	if err := db.Preload("Ingredient").Where("user_id = ?", userID).
		Order("ingredient_id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list fridge: %w", err)
	}
	return items, nil
}

// Put sets how much of an ingredient the user has. The ingredient is
// created when its name has not been seen before.
func (s *FridgeService) Put(ctx context.Context, userID uuid.UUID, name string, amount float64, unit string) (*models.FridgeItem, error) {
	name = strings.TrimSpace(name)
	id := recipe.NormalizeID(name)
	if id == "" {
		return nil, fmt.Errorf("%w: ingredient name is required", ErrInvalidInput)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	u, ok := models.ParseUnit(unit)
	if !ok {
		return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, unit)
	}

	item := models.FridgeItem{UserID: userID, IngredientID: id, Amount: amount, Unit: u, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Ingredient{ID: id, Name: name}).Error; err != nil {
			return fmt.Errorf("failed to store ingredient: %w", err)
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "ingredient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "unit", "updated_at"}),
		}).Create(&item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put fridge item: %w", err)
	}

	var stored models.FridgeItem
	if err := s.db.WithContext(ctx).Preload("Ingredient").
		First(&stored, "user_id = ? AND ingredient_id = ?", userID, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload fridge item: %w", err)
	}
	return &stored, nil
}

func (s *FridgeService) Remove(ctx context.Context, userID uuid.UUID, ingredientID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND ingredient_id = ?", userID, recipe.NormalizeID(ingredientID)).
		Delete(&models.FridgeItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove fridge item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFridgeItemNotFound
	}
	return nil
}

// Cook takes a recipe's ingredients out of the user's fridge. Only items
// stored in the same unit as the recipe uses are touched, and items that
// run out are removed. The remaining fridge is returned.
func (s *FridgeService) Cook(ctx context.Context, userID, recipeID uuid.UUID) ([]models.FridgeItem, error) {
	var items []models.FridgeItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Recipe
		err := tx.Preload("Ingredients").First(&r, "id = ?", recipeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load recipe: %w", err)
		}

		for _, ri := range r.Ingredients {
			var item models.FridgeItem
			err := tx.Where("user_id = ? AND ingredient_id = ? AND unit = ?", userID, ri.IngredientID, ri.Unit).
				First(&item).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to load fridge item: %w", err)
			}

			left := item.Amount - ri.Amount
			q := tx.Model(&models.FridgeItem{}).Where("user_id = ? AND ingredient_id = ?", userID, ri.IngredientID)
			if left <= 0 {
				err = q.Delete(&models.FridgeItem{}).Error
			} else {
				err = q.Updates(map[string]interface{}{"amount": left, "updated_at": time.Now()}).Error
			}
			if err != nil {
				return fmt.Errorf("failed to update fridge item: %w", err)
			}
		}

		items, err = listFridge(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
