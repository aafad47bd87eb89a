package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

const rollbackSuffix = "_rollback.sql"

// Models lists every table managed by the service, in dependency order.
var Models = []interface{}{
	&models.User{},
	&models.Allergen{},
	&models.UserFollow{},
	&models.Ingredient{},
	&models.IngredientAllergen{},
	&models.Recipe{},
	&models.RecipeIngredient{},
	&models.RecipeImage{},
	&models.Rating{},
	&models.MealPlan{},
	&models.MealPlanRecipe{},
	&models.FridgeItem{},
}

// RunMigrations brings the schema up to date. SQLite uses gorm's
// auto-migration; PostgreSQL applies the SQL files in migrationsDir.
func RunMigrations(ctx context.Context, db *gorm.DB, migrationsDir string, log *zap.Logger) error {
	if !IsPostgres(db) {
		log.Info("using gorm auto-migration", zap.String("dialect", db.Dialector.Name()))
		return db.WithContext(ctx).AutoMigrate(Models...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}
	_, err = NewMigrator(sqlDB, migrationsDir, log).Up(ctx)
	return err
}

// Migrator applies and rolls back numbered SQL files of the form
// VERSION_name.sql, with an optional VERSION_name_rollback.sql.
type Migrator struct {
	db  *sql.DB
	dir string
	log *zap.Logger
}

func NewMigrator(db *sql.DB, dir string, log *zap.Logger) *Migrator {
	return &Migrator{db: db, dir: dir, log: log}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// Files returns the forward migration files in apply order.
func (m *Migrator) Files() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the names it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	files, err := m.Files()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, file := range files {
		version := strings.SplitN(file, "_", 2)[0]

		var exists bool
		if err := m.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version,
		).Scan(&exists); err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			m.log.Debug("skipping migration", zap.String("file", file))
			continue
		}

		content, err := os.ReadFile(filepath.Join(m.dir, file))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if err := m.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", file, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, file,
			); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", file, err)
			}
			return nil
		}); err != nil {
			return applied, err
		}

		m.log.Info("applied migration", zap.String("file", file))
		applied = append(applied, file)
	}
	return applied, nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return "", err
	}

	var version, name string
	err := m.db.QueryRowContext(ctx,
		"SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1",
	).Scan(&version, &name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no migrations to roll back")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	path := filepath.Join(m.dir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file %s: %w", path, err)
	}

	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	m.log.Info("rolled back migration", zap.String("file", name))
	return name, nil
}

func (m *Migrator) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
