package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Progress backends
const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	ProgressBackend string
	RedisAddress    string
	RedisPassword   string
	RedisDB         int

	CatalogPath string

	TokenSecret   string
	TokenDuration time.Duration

	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration

	StoryAPIURL    string
	StoryAPIKey    string
	StoryModel     string
	StoryTimeout   time.Duration
	StoryRateLimit int

	ParentPIN    string
	SoundEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	cfg := &Config{
		ServerPort: getEnv("PORT", "8080"),

		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./heroworld.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		ProgressBackend: strings.ToLower(getEnv("PROGRESS_BACKEND", BackendSQL)),
		RedisAddress:    getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),

		CatalogPath: getEnv("CATALOG_PATH", ""),

		TokenSecret:   getEnv("TOKEN_SECRET", ""),
		TokenDuration: getEnvAsDuration("TOKEN_DURATION", 30*24*time.Hour),

		SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SweepInterval:      getEnvAsDuration("SWEEP_INTERVAL", time.Minute),

		StoryAPIURL:    getEnv("STORY_API_URL", "https://api.openai.com/v1/chat/completions"),
		StoryAPIKey:    getEnv("STORY_API_KEY", ""),
		StoryModel:     getEnv("STORY_MODEL", "gpt-4o-mini"),
		StoryTimeout:   getEnvAsDuration("STORY_TIMEOUT", 20*time.Second),
		StoryRateLimit: getEnvAsInt("STORY_RATE_LIMIT", 10),

		ParentPIN:    getEnv("PARENT_PIN", ""),
		SoundEnabled: getEnvAsBool("SOUND_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.ServerPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.ServerPort)
	}

	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
		if c.DatabasePath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	switch c.ProgressBackend {
	case BackendSQL, BackendMemory:
	case BackendRedis:
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported progress backend: %s", c.ProgressBackend)
	}

	if c.TokenDuration <= 0 {
		return fmt.Errorf("invalid token duration: %s", c.TokenDuration)
	}
	if c.SessionIdleTimeout <= 0 || c.SweepInterval <= 0 {
		return fmt.Errorf("session timeout and sweep interval must be positive")
	}
	if c.StoryRateLimit < 1 {
		return fmt.Errorf("invalid story rate limit: %d", c.StoryRateLimit)
	}
	if c.ParentPIN != "" && len(c.ParentPIN) < 4 {
		return fmt.Errorf("parent PIN must have at least 4 digits")
	}

	return nil
}

// StoryEnabled reports whether an AI text service is configured
func (c *Config) StoryEnabled() bool {
	return c.StoryAPIKey != "" && c.StoryAPIURL != ""
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
