package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/api"
	"github.com/pageza/alchemorsel-planner/backend/internal/middleware"
)

// Handlers groups the API handlers mounted under /api/v1.
type Handlers struct {
	Auth     *api.AuthHandler
	Follows  *api.FollowHandler
	Recipes  *api.RecipeHandler
	AI       *api.AIHandler
	MealPlan *api.MealPlanHandler
	Fridge   *api.FridgeHandler
	Health   *api.HealthHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, validator middleware.TokenValidator, corsOrigins []string, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		requestid.New(),
		middleware.Logger(log),
		middleware.Recovery(log),
		cors.New(corsConfig(corsOrigins)),
		middleware.ErrorHandler(log),
	)

	h.Health.RegisterRoutes(router)

	authMW := middleware.AuthMiddleware(validator)
	v1 := router.Group("/api/v1")
	h.Auth.RegisterRoutes(v1, authMW)
	h.Follows.RegisterRoutes(v1, authMW)
	h.Recipes.RegisterRoutes(v1, authMW)
	h.AI.RegisterRoutes(v1, authMW)
	h.MealPlan.RegisterRoutes(v1, authMW)
	h.Fridge.RegisterRoutes(v1, authMW)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		// credentials cannot be combined with a wildcard origin
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
