package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"partsdash/internal/errors"
	"partsdash/internal/pivot"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Pipeline PipelineConfig
	Session  SessionConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	MaxUploadBytes int64
	AllowedOrigins []string
}

// PipelineConfig holds data processing settings
type PipelineConfig struct {
	CacheMaxEntries   int
	AdhocMaxDistinct  int
	FilterAllLabel    string
	FoldHeaderAccents bool
	CollisionPolicy   pivot.CollisionPolicy
}

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	policy, err := pivot.ParseCollisionPolicy(getEnvOrDefault("KEY_COLLISION_POLICY", string(pivot.CollapseCollisions)))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			GinMode:        getEnvOrDefault("GIN_MODE", "debug"),
			MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) * 1024 * 1024,
			AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Pipeline: PipelineConfig{
			CacheMaxEntries:   getEnvIntOrDefault("CACHE_MAX_ENTRIES", 0),
			AdhocMaxDistinct:  getEnvIntOrDefault("ADHOC_MAX_DISTINCT", 100),
			FilterAllLabel:    os.Getenv("FILTER_ALL_LABEL"),
			FoldHeaderAccents: getEnvBoolOrDefault("HEADER_FOLD_ACCENTS", false),
			CollisionPolicy:   policy,
		},
		Session: SessionConfig{
			TTL:           getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour),
			SweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Pipeline.CacheMaxEntries < 0 {
		return errors.ConfigInvalid("CACHE_MAX_ENTRIES cannot be negative")
	}
	if config.Pipeline.AdhocMaxDistinct < 2 {
		return errors.ConfigInvalid("ADHOC_MAX_DISTINCT must be at least 2")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
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
