package main

import (
	"context"
	"database/sql"
	"flag"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/config"
	"github.com/pageza/alchemorsel-planner/backend/internal/database"
	"github.com/pageza/alchemorsel-planner/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Directory holding the SQL migrations (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}
	log := logger.New(cfg.LogLevel, cfg.Environment.UsesConsoleLogs())
	defer func() { _ = log.Sync() }()

	if cfg.DBDriver == "sqlite" {
		log.Fatal("sql migrations only apply to postgres; sqlite is migrated on startup")
	}
	migrationsDir := cfg.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	m := database.NewMigrator(db, migrationsDir, log)
	if *rollback {
		name, err := m.Down(ctx)
		if err != nil {
			log.Fatal("rollback failed", zap.Error(err))
		}
		log.Info("rolled back migration", zap.String("name", name))
		return
	}

	applied, err := m.Up(ctx)
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations complete", zap.Int("applied", len(applied)), zap.Strings("files", applied))
}
