package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

const (
	userIDKey   = "user_id"
	userNameKey = "user_name"
	userRoleKey = "user_role"
)

// ErrUnauthorized is pushed when a request carries no usable token.
var ErrUnauthorized = errors.New("unauthorized")

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userNameKey, claims.Name)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	_ = c.Error(ErrUnauthorized).SetMeta(msg)
	c.Abort()
}

// UserID returns the id of the authenticated user.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// UserRole returns the role of the authenticated user, PLAIN when unknown.
func UserRole(c *gin.Context) models.Role {
	if role, ok := c.Get(userRoleKey); ok {
		if r, ok := role.(models.Role); ok && r != "" {
			return r
		}
	}
	return models.RolePlain
}
