package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerPort   string        `mapstructure:"server_port"`
	ServerHost   string        `mapstructure:"server_host"`
	ReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	WriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`

	// Database configuration
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	MigrationsDir string `mapstructure:"migrations_dir"`

	// Redis configuration
	RedisURL      string `mapstructure:"redis_url"`
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// JWT configuration
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`

	// Recipe generator (OpenAI compatible chat completions)
	LLMAPIURL     string        `mapstructure:"llm_api_url"`
	LLMAPIKey     string        `mapstructure:"llm_api_key"`
	LLMModel      string        `mapstructure:"llm_model"`
	LLMMaxRetries int           `mapstructure:"llm_max_retries"`
	LLMTimeout    time.Duration `mapstructure:"llm_timeout"`
	AIRateLimit   int           `mapstructure:"ai_rate_limit"`
	DraftTTL      time.Duration `mapstructure:"draft_ttl"`

	// Recipe image storage
	S3Bucket   string `mapstructure:"s3_bucket_name"`
	S3Region   string `mapstructure:"aws_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`

	LogLevel  string `mapstructure:"log_level"`
	WeekStart string `mapstructure:"meal_plan_week_start"`
}

// secretKeys are overlaid from Docker secrets when the file exists.
var secretKeys = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
	"redis_url",
	"llm_api_key",
}

// LoadConfig reads an optional .env file, the process environment and
// Docker secrets, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	env := GetEnvironment()
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// CI provides sensitive values as TEST_* variables
	if env == CI {
		for _, key := range []string{"db_password", "jwt_secret", "redis_password", "redis_url"} {
			if err := v.BindEnv(key, strings.ToUpper(key), "TEST_"+strings.ToUpper(key)); err != nil {
				return nil, fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}
	} else {
		for _, key := range secretKeys {
			if value := readSecret(key); value != "" {
				v.Set(key, value)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Environment = env
	cfg.CORSOrigins = splitList(v.GetString("cors_origins"))

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_read_timeout", "15s")
	v.SetDefault("server_write_timeout", "60s")
	v.SetDefault("cors_origins", "http://localhost:3000")

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "alchemorsel")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "alchemorsel.db")

	v.SetDefault("redis_url", "")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", "24h")

	v.SetDefault("llm_api_url", "https://api.deepseek.com/v1")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "deepseek-chat")
	v.SetDefault("llm_max_retries", 3)
	v.SetDefault("llm_timeout", "60s")
	v.SetDefault("ai_rate_limit", 5)
	v.SetDefault("draft_ttl", "24h")

	v.SetDefault("s3_bucket_name", "alchemorsel-recipe-images")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("migrations_dir", "migrations")

	v.SetDefault("log_level", "info")
	v.SetDefault("meal_plan_week_start", "monday")
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisAddress returns a redis:// URL, preferring an explicit REDIS_URL.
func (c *Config) RedisAddress() string {
	if c.RedisURL != "" {
		return c.RedisURL
	}
	auth := ""
	if c.RedisPassword != "" {
		auth = ":" + c.RedisPassword + "@"
	}
	return fmt.Sprintf("redis://%s%s:%s/%d", auth, c.RedisHost, c.RedisPort, c.RedisDB)
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// FirstDayOfWeek parses the configured meal-plan week start.
func (c *Config) FirstDayOfWeek() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(c.WeekStart)) {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", c.WeekStart)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
