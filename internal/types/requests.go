package types

import (
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// Auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AllergenEntry is one allergen a user declares, with how badly it affects them.
type AllergenEntry struct {
	Type     string `json:"type" binding:"required"`
	Severity int    `json:"severity" binding:"omitempty,min=1,max=5"`
}

type UpdateAllergensRequest struct {
	Allergens []AllergenEntry `json:"allergens" binding:"dive"`
}

type UserScoreResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Score  float64   `json:"score"`
}

// Recipes

type ListRecipesQuery struct {
	Search     string `form:"q"`
	Cuisine    string `form:"cuisine"`
	MealType   string `form:"meal_type"`
	RecipeType string `form:"recipe_type"`
	Owner      string `form:"owner"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

type ListRecipesResponse struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type RateRecipeRequest struct {
	Score   *float64 `json:"score" binding:"required,min=0,max=5"`
	Message string   `json:"message" binding:"max=2000"`
}

// AI drafts

type GenerateRecipeRequest struct {
	Query string `json:"query" binding:"required,max=500"`
}

// Meal plans

type FillMealPlanRequest struct {
	Date string `json:"date"`
}

type SetMealPlanEntryRequest struct {
	Date       string    `json:"date" binding:"required"`
	MealType   string    `json:"meal_type" binding:"required"`
	RecipeType string    `json:"recipe_type"`
	RecipeID   uuid.UUID `json:"recipe_id" binding:"required"`
}

// Fridge

type PutFridgeItemRequest struct {
	Ingredient string   `json:"ingredient" binding:"required"`
	Amount     *float64 `json:"amount" binding:"required,min=0"`
	Unit       string   `json:"unit" binding:"required"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
