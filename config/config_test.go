package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty secrets directory and a clean
// environment.
func isolate(t *testing.T) string {
	t.Helper()
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	for _, key := range []string{"DB_HOST", "DB_PASSWORD", "DB_DRIVER", "JWT_SECRET", "REDIS_URL", "LLM_API_KEY", "MEAL_PLAN_WEEK_START"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return secretsDir
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("LLM_MAX_RETRIES", "5")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "6543", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisAddress())
	assert.Equal(t, 5, cfg.LLMMaxRetries)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "alchemorsel", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 3, cfg.LLMMaxRetries)
	assert.Equal(t, 5, cfg.AIRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.DraftTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisAddress())

	day, err := cfg.FirstDayOfWeek()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	secretsDir := isolate(t)
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "llm_api_key"), []byte("sk-test"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
}

func TestLoadConfigCI(t *testing.T) {
	isolate(t)
	t.Setenv("CI", "true")
	t.Setenv("TEST_DB_PASSWORD", "ci-pass")
	t.Setenv("TEST_JWT_SECRET", "ci-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)
	assert.Equal(t, "ci-pass", cfg.DBPassword)
	assert.Equal(t, "ci-secret", cfg.JWTSecret)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_password")
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment:   Development,
			ServerPort:    "8080",
			DBDriver:      "sqlite",
			LLMMaxRetries: 3,
			WeekStart:     "Monday",
		}
	}

	assert.NoError(t, ValidateConfig(base()))

	cfg := base()
	cfg.DBDriver = "mysql"
	assert.ErrorContains(t, ValidateConfig(cfg), "db_driver")

	cfg = base()
	cfg.LLMMaxRetries = 0
	assert.ErrorContains(t, ValidateConfig(cfg), "llm_max_retries")

	cfg = base()
	cfg.WeekStart = "someday"
	assert.ErrorContains(t, ValidateConfig(cfg), "meal_plan_week_start")

	cfg = base()
	cfg.WeekStart = "sunday"
	require.NoError(t, ValidateConfig(cfg))
	day, _ := cfg.FirstDayOfWeek()
	assert.Equal(t, time.Sunday, day)
}
