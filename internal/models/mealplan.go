package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DayLayout is the formatting used to compare meal-plan dates by day.
const DayLayout = "2006-01-02"

type MealPlan struct {
	ID        uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	OwnerID   uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex" json:"owner_id"`
	Public    bool             `gorm:"not null;default:true" json:"public"`
	Recipes   []MealPlanRecipe `gorm:"foreignKey:MealPlanID" json:"recipes"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UsedRecipeIDs returns the ids of every recipe already on the plan.
func (p *MealPlan) UsedRecipeIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(p.Recipes))
	ids := make([]uuid.UUID, 0, len(p.Recipes))
	for _, r := range p.Recipes {
		if seen[r.RecipeID] {
			continue
		}
		seen[r.RecipeID] = true
		ids = append(ids, r.RecipeID)
	}
	return ids
}

type MealPlanRecipe struct {
	ID         uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	MealPlanID uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"meal_plan_id"`
	Date       datatypes.Date `gorm:"not null;index" json:"date"`
	MealType   MealType       `gorm:"size:16;not null" json:"meal_type"`
	RecipeType RecipeType     `gorm:"size:16;not null" json:"recipe_type"`
	RecipeID   uuid.UUID      `gorm:"type:varchar(36);not null" json:"recipe_id"`
	Recipe     *Recipe        `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (e *MealPlanRecipe) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Day returns the entry's date formatted for day comparison.
func (e MealPlanRecipe) Day() string {
	return time.Time(e.Date).Format(DayLayout)
}

// IsMainDinner reports whether the entry occupies a day's main dinner slot.
func (e MealPlanRecipe) IsMainDinner() bool {
	return e.RecipeType == RecipeTypeMain && e.MealType == MealTypeDinner
}
