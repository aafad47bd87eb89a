package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredSecrets lists the sensitive values each environment must provide.
var requiredSecrets = map[Environment][]string{
	Development: {},
	Test:        {},
	CI:          {"db_password", "jwt_secret"},
	Production:  {"db_password", "jwt_secret", "llm_api_key"},
}

// ValidateConfig checks if the configuration meets the requirements for
// its environment. Outside CI and production missing secrets fall back to
// development values.
func ValidateConfig(cfg *Config) error {
	var problems []string
	add := func(field, format string, args ...interface{}) {
		problems = append(problems, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}.Error())
	}

	values := map[string]string{
		"db_password": cfg.DBPassword,
		"jwt_secret":  cfg.JWTSecret,
		"llm_api_key": cfg.LLMAPIKey,
	}
	for _, key := range requiredSecrets[cfg.Environment] {
		if key == "db_password" && cfg.DBDriver == "sqlite" {
			continue
		}
		if values[key] == "" {
			add(key, "required in %s environment", cfg.Environment)
		}
	}
	if cfg.JWTSecret == "" && !cfg.Environment.IsProduction() && cfg.Environment != CI {
		cfg.JWTSecret = "development-secret"
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		add("db_driver", "must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.ServerPort == "" {
		add("server_port", "is required")
	}
	if cfg.LLMMaxRetries < 1 {
		add("llm_max_retries", "must be at least 1")
	}
	if cfg.AIRateLimit < 0 {
		add("ai_rate_limit", "must not be negative")
	}
	if _, err := cfg.FirstDayOfWeek(); err != nil {
		add("meal_plan_week_start", "%v", err)
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
