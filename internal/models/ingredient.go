package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is keyed by the normalized form of its name, so the same name
// always maps to the same row.
type Ingredient struct {
	ID        string               `gorm:"size:128;primaryKey" json:"id"`
	Name      string               `gorm:"size:255;not null" json:"name"`
	Allergens []IngredientAllergen `gorm:"foreignKey:IngredientID" json:"allergens"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// AllergenTypes flattens the allergen tags of the ingredient.
func (i Ingredient) AllergenTypes() []AllergenType {
	out := make([]AllergenType, 0, len(i.Allergens))
	for _, a := range i.Allergens {
		out = append(out, a.AllergenType)
	}
	return out
}

type IngredientAllergen struct {
	IngredientID string       `gorm:"size:128;primaryKey" json:"ingredient_id"`
	AllergenType AllergenType `gorm:"size:16;primaryKey;index" json:"allergen_type"`
}

func (IngredientAllergen) TableName() string {
	return "ingredient_allergens"
}

// FridgeItem is an ingredient the user currently has at home.
type FridgeItem struct {
	UserID       uuid.UUID   `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	IngredientID string      `gorm:"size:128;primaryKey" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Amount       float64     `gorm:"not null" json:"amount"`
	Unit         Unit        `gorm:"size:16;not null" json:"unit"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (FridgeItem) TableName() string {
	return "fridge_items"
}
