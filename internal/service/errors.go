package service

import "errors"

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEntryNotFound      = errors.New("meal plan entry not found")
	ErrFridgeItemNotFound = errors.New("fridge item not found")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidInput       = errors.New("invalid input")
)
