package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-planner/backend/config"
	"github.com/pageza/alchemorsel-planner/backend/internal/api"
	"github.com/pageza/alchemorsel-planner/backend/internal/database"
	"github.com/pageza/alchemorsel-planner/backend/internal/logger"
	"github.com/pageza/alchemorsel-planner/backend/internal/middleware"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/router"
	"github.com/pageza/alchemorsel-planner/backend/internal/server"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// the logger depends on configuration
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.Environment.UsesConsoleLogs())
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, log); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}

	weekStart, err := cfg.FirstDayOfWeek()
	if err != nil {
		return err
	}

	recipeRepo := repository.NewRecipeRepository(db)
	drafts := service.NewDraftStore(redisClient, cfg.DraftTTL)

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, log)
	recipeService := service.NewRecipeService(recipeRepo, drafts, log)
	llmService := service.NewLLMService(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxRetries, cfg.LLMTimeout, log)
	aiService := service.NewAIService(llmService, drafts, log)
	mealPlanService := service.NewMealPlanService(repository.NewMealPlanRepository(db), recipeRepo, weekStart, log)
	ratingService := service.NewRatingService(db)
	fridgeService := service.NewFridgeService(db)
	imageService := service.NewImageService(db, s3Cfg.Client, s3Cfg.Presigner, s3Cfg.BucketName, s3Cfg.BaseURL, log)

	handlers := router.Handlers{
		Auth:     api.NewAuthHandler(authService, ratingService),
		Follows:  api.NewFollowHandler(service.NewFollowService(db, log)),
		Recipes:  api.NewRecipeHandler(recipeService, ratingService, fridgeService, imageService),
		AI:       api.NewAIHandler(aiService, recipeService, authService, middleware.NewAIRateLimiter(redisClient, cfg.AIRateLimit, log)),
		MealPlan: api.NewMealPlanHandler(mealPlanService, authService),
		Fridge:   api.NewFridgeHandler(fridgeService),
		Health:   api.NewHealthHandler(healthChecks(db, redisClient), log),
	}
	srv := server.New(cfg, router.SetupRouter(handlers, authService, cfg.CORSOrigins, log), log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func healthChecks(db *gorm.DB, client *redis.Client) map[string]api.HealthCheck {
	return map[string]api.HealthCheck{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
		"redis":    func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
}
