package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

type MealPlanRepository struct {
	db *gorm.DB
}

func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// FindByOwner loads a user's meal plan with its entries and their recipes.
func (r *MealPlanRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := r.db.WithContext(ctx).
		Preload("Recipes", func(db *gorm.DB) *gorm.DB {
			return db.Order("date").Order("meal_type")
		}).
		Preload("Recipes.Recipe").
		Where("owner_id = ?", ownerID).
		First(&plan).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &plan, nil
}

// AppendEntries creates the owner's plan if needed and adds entries to it
// in one transaction. A main-course entry replaces any main course already
// planned for the same date and meal. On PostgreSQL the plan row is locked
// so concurrent writers for one owner queue up.
func (r *MealPlanRepository) AppendEntries(ctx context.Context, ownerID uuid.UUID, entries []models.MealPlanRecipe) (*models.MealPlan, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh := models.MealPlan{OwnerID: ownerID, Public: true}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(&fresh).Error; err != nil {
			return fmt.Errorf("failed to create meal plan: %w", err)
		}

		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var plan models.MealPlan
		if err := q.Where("owner_id = ?", ownerID).First(&plan).Error; err != nil {
			return fmt.Errorf("failed to lock meal plan: %w", err)
		}

		for _, e := range entries {
			e.ID = uuid.Nil
			e.MealPlanID = plan.ID
			e.Recipe = nil
			if e.RecipeType == models.RecipeTypeMain {
				if err := tx.Where("meal_plan_id = ? AND date = ? AND meal_type = ? AND recipe_type = ?",
					plan.ID, e.Date, e.MealType, e.RecipeType,
				).Delete(&models.MealPlanRecipe{}).Error; err != nil {
					return fmt.Errorf("failed to clear meal plan slot: %w", err)
				}
			}
			if err := tx.Create(&e).Error; err != nil {
				return fmt.Errorf("failed to add meal plan entry: %w", err)
			}
		}
		return tx.Model(&plan).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByOwner(ctx, ownerID)
}

// DeleteEntry removes one entry from the owner's plan.
func (r *MealPlanRepository) DeleteEntry(ctx context.Context, ownerID, entryID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&models.MealPlan{}).Select("id").Where("owner_id = ?", ownerID)
	res := db.Where("id = ? AND meal_plan_id IN (?)", entryID, owned).Delete(&models.MealPlanRecipe{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete meal plan entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
