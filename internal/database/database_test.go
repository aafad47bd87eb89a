package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/config"
	"github.com/pageza/alchemorsel-planner/backend/internal/database"
	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/testhelpers"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		Environment: config.Test,
		DBDriver:    "sqlite",
		SQLitePath:  filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.New(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, database.IsPostgres(db))
	assert.NoError(t, database.HealthCheck(context.Background(), db))

	require.NoError(t, database.RunMigrations(context.Background(), db, testhelpers.MigrationsDir(), zap.NewNop()))
	for _, m := range database.Models {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestSetupTestDB(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	user := testhelpers.CreateUser(t, db, models.AllergenNut)
	var loaded models.User
	require.NoError(t, db.Preload("Allergens").First(&loaded, "id = ?", user.ID).Error)
	assert.Equal(t, []models.AllergenType{models.AllergenNut}, loaded.AllergenSet())
}

func TestMigratorUpAndDown(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write("0001_widgets.sql", "CREATE TABLE widgets (id INTEGER PRIMARY KEY);")
	write("0001_widgets_rollback.sql", "DROP TABLE widgets;")
	write("0002_gadgets.sql", "CREATE TABLE gadgets (id INTEGER PRIMARY KEY);")
	write("0002_gadgets_rollback.sql", "DROP TABLE gadgets;")
	write("README.md", "not a migration")

	m := database.NewMigrator(sqlDB, dir, zap.NewNop())
	files, err := m.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_widgets.sql", "0002_gadgets.sql"}, files)

	ctx := context.Background()
	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, files, applied)
	assert.True(t, db.Migrator().HasTable("gadgets"))

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	name, err := m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002_gadgets.sql", name)
	assert.False(t, db.Migrator().HasTable("gadgets"))
	assert.True(t, db.Migrator().HasTable("widgets"))
}

func TestRunMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	assert.True(t, database.IsPostgres(db))
	for _, m := range database.Models {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
