package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/config"
	"github.com/pageza/alchemorsel-planner/backend/internal/database"
	"github.com/pageza/alchemorsel-planner/backend/internal/logger"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/seed"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

const testPassword = "testpassword123"

// defaultUsers cover the allergen combinations the meal planner filters on.
var defaultUsers = []seed.UserSeed{
	{Name: "John Doe", Email: "john.doe@example.com", Password: testPassword},
	{
		Name: "Jane Smith", Email: "jane.smith@example.com", Password: testPassword,
		Allergens: []types.AllergenEntry{{Type: "PEANUT", Severity: 5}, {Type: "NUT", Severity: 4}},
	},
	{
		Name: "Bob Wilson", Email: "bob.wilson@example.com", Password: testPassword,
		Allergens: []types.AllergenEntry{{Type: "GLUTEN", Severity: 3}},
	},
	{
		Name: "Alice Cooper", Email: "alice.cooper@example.com", Password: testPassword,
		Allergens: []types.AllergenEntry{{Type: "MILK", Severity: 2}, {Type: "EGG", Severity: 2}},
	},
	{Name: "Admin User", Email: "admin@example.com", Password: testPassword, Admin: true},
}

func main() {
	file := flag.String("file", "", "JSON file holding an array of users (defaults to the built-in set)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}
	log := logger.New(cfg.LogLevel, cfg.Environment.UsesConsoleLogs())
	defer func() { _ = log.Sync() }()

	users := defaultUsers
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal("failed to open user file", zap.Error(err))
		}
		users, err = seed.LoadUsers(f)
		f.Close()
		if err != nil {
			log.Fatal("failed to read user file", zap.Error(err))
		}
	}

	ctx := context.Background()
	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, log)
	recipes := service.NewRecipeService(repository.NewRecipeRepository(db), nil, log)
	created, err := seed.New(db, auth, recipes, log).Users(ctx, users)
	if err != nil {
		log.Fatal("failed to seed users", zap.Error(err))
	}
	fields := []zap.Field{zap.Int("count", len(created))}
	if *file == "" {
		fields = append(fields, zap.String("password", testPassword))
	}
	log.Info("test users ready", fields...)
}
