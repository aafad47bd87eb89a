package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// upsertIngredients stores ingredients that do not exist yet and adds any
// allergen tags that are missing. Existing names and tags are never changed.
func upsertIngredients(tx *gorm.DB, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	var tags []models.IngredientAllergen
	rows := make([]models.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		for _, a := range ing.Allergens {
			tags = append(tags, models.IngredientAllergen{IngredientID: ing.ID, AllergenType: a.AllergenType})
		}
		ing.Allergens = nil
		rows = append(rows, ing)
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to store ingredients: %w", err)
	}
	if len(tags) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
			return fmt.Errorf("failed to tag ingredient allergens: %w", err)
		}
	}
	return nil
}
