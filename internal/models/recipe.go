package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// DefaultPersons is the serving count used when a recipe does not say.
const DefaultPersons = 4

type Recipe struct {
	ID              uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`
	Name            string             `gorm:"size:255;not null" json:"name"`
	Description     string             `gorm:"type:text" json:"description"`
	MealType        MealType           `gorm:"size:16;not null;default:'DINNER';index" json:"meal_type"`
	RecipeType      RecipeType         `gorm:"size:16;not null;default:'MAIN';index" json:"recipe_type"`
	CuisineName     string             `gorm:"size:64;index" json:"cuisine_name"`
	Persons         int                `gorm:"not null;default:4" json:"persons"`
	PreparationTime int                `gorm:"not null" json:"preparation_time"`
	Steps           StringList         `gorm:"type:text;not null" json:"steps"`
	Ingredients     []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Images          []RecipeImage      `gorm:"foreignKey:RecipeID" json:"images"`
	Ratings         []Rating           `gorm:"foreignKey:RecipeID" json:"ratings,omitempty"`
	OwnerID         uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Embedding       *pgvector.Vector   `gorm:"type:vector(3)" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Persons <= 0 {
		r.Persons = DefaultPersons
	}
	return nil
}

// RecipeIngredient joins a recipe to an ingredient with the amount used.
type RecipeIngredient struct {
	RecipeID     uuid.UUID   `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	IngredientID string      `gorm:"size:128;primaryKey" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Amount       float64     `gorm:"not null" json:"amount"`
	Unit         Unit        `gorm:"size:16;not null" json:"unit"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

type RecipeImage struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Key       string    `gorm:"size:255;not null" json:"key"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *RecipeImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Rating is unique per (recipe, owner).
type Rating struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_rating_recipe_owner" json:"recipe_id"`
	OwnerID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_rating_recipe_owner" json:"owner_id"`
	Score     float64   `gorm:"not null" json:"score"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
