package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID   `json:"user_id"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
}

// IsAdmin reports whether the token was issued to an administrator.
func (c *TokenClaims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
