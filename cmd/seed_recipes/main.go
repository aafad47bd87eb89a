package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/config"
	"github.com/pageza/alchemorsel-planner/backend/internal/database"
	"github.com/pageza/alchemorsel-planner/backend/internal/logger"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/seed"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

var recipePrompts = []string{
	"A traditional Italian pasta dinner with a unique twist",
	"A spicy Indian curry for a weeknight dinner",
	"A Mediterranean seafood main course with fresh herbs",
	"A vegetarian stir-fry with Asian flavors",
	"A traditional Mexican dinner with authentic spices",
	"A Thai soup with bold flavors",
	"A Korean BBQ main course with a homemade marinade",
	"A traditional Moroccan tagine with aromatic spices",
	"A quick and easy dinner for busy weeknights",
	"A dinner that uses only pantry staples",
	"A classic French dessert",
	"A quick breakfast with protein",
}

func main() {
	file := flag.String("file", "", "JSON file holding an array of recipe objects")
	generate := flag.Int("generate", 0, "Number of recipes to generate with the language model")
	ownerEmail := flag.String("owner", "admin@example.com", "Email of the user owning the seeded recipes")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}
	log := logger.New(cfg.LogLevel, cfg.Environment.UsesConsoleLogs())
	defer func() { _ = log.Sync() }()

	if *file == "" && *generate <= 0 {
		log.Fatal("nothing to do: pass -file or -generate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, log)
	recipes := service.NewRecipeService(repository.NewRecipeRepository(db), nil, log)
	seeder := seed.New(db, auth, recipes, log)

	owners, err := seeder.Users(ctx, []seed.UserSeed{{
		Name:     "Recipe Seeder",
		Email:    *ownerEmail,
		Password: fmt.Sprintf("seed-%d", os.Getpid()),
		Admin:    true,
	}})
	if err != nil {
		log.Fatal("failed to prepare recipe owner", zap.Error(err))
	}
	owner := owners[0]

	var total seed.Result
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal("failed to open recipe file", zap.Error(err))
		}
		raws, err := seed.LoadRecipes(f)
		f.Close()
		if err != nil {
			log.Fatal("failed to read recipe file", zap.Error(err))
		}
		res, err := seeder.Recipes(ctx, owner.ID, raws)
		if err != nil {
			log.Fatal("failed to seed recipes", zap.Error(err))
		}
		total.Created += res.Created
		total.Rejected += res.Rejected
	}

	if *generate > 0 {
		llm := service.NewLLMService(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxRetries, cfg.LLMTimeout, log)
		prompts := make([]string, 0, *generate)
		for i := 0; i < *generate; i++ {
			prompts = append(prompts, recipePrompts[i%len(recipePrompts)])
		}
		res, err := seeder.Generate(ctx, llm, owner.ID, prompts)
		if err != nil {
			log.Fatal("failed to generate recipes", zap.Error(err))
		}
		total.Created += res.Created
		total.Rejected += res.Rejected
	}

	log.Info("seeding complete", zap.Int("created", total.Created), zap.Int("rejected", total.Rejected))
}
