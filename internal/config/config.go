// Package config loads the application's configuration from environment
// variables and an optional .env file using Viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/code-critic/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	ServerPort string
	Logger     logger.Config
	Database   *DBConfig
	LLM        LLMConfig
	RateLimit  RateLimitConfig
}

// DBConfig describes the relational store connection. Driver selects between
// postgres (lib/pq) and sqlite (modernc.org/sqlite, pure Go).
type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	// Path is the database file for the sqlite driver.
	Path string

	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LLMConfig describes the OpenAI-compatible completion endpoint and the
// client's retry policy.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string

	Timeout     time.Duration
	MaxAttempts int
	// RetryDelay is the initial inter-attempt delay; it grows by
	// BackoffMultiplier after every failed attempt.
	RetryDelay        time.Duration
	BackoffMultiplier float64
	// MalformedRetries bounds how often a 200 response with unparseable JSON
	// is retried. Semantically invalid responses are never retried.
	MalformedRetries int

	Temperature float64
	MaxTokens   int
}

// RateLimitConfig throttles the submission endpoint per client address.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")

	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "code_critic.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "critic")
	viper.SetDefault("DB_NAME", "code_critic")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	viper.SetDefault("LLM_MODEL", "gpt-4o-mini")
	viper.SetDefault("LLM_TIMEOUT", "30s")
	viper.SetDefault("LLM_MAX_ATTEMPTS", 3)
	viper.SetDefault("LLM_RETRY_DELAY", "1s")
	viper.SetDefault("LLM_BACKOFF_MULTIPLIER", 2.0)
	viper.SetDefault("LLM_MALFORMED_RETRIES", 1)
	viper.SetDefault("LLM_TEMPERATURE", 0.3)
	viper.SetDefault("LLM_MAX_TOKENS", 1500)

	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 5)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Debug("no .env file loaded", "error", err)
		}
	}

	if viper.GetString("LLM_BASE_URL") == "" {
		return nil, fmt.Errorf("LLM_BASE_URL must be set")
	}
	if viper.GetString("LLM_API_KEY") == "" {
		return nil, fmt.Errorf("LLM_API_KEY must be set")
	}

	driver := strings.ToLower(viper.GetString("DB_DRIVER"))
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", driver)
	}

	if viper.GetInt("LLM_MAX_ATTEMPTS") < 1 {
		return nil, fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1")
	}

	return &Config{
		ServerPort: viper.GetString("SERVER_PORT"),
		Logger: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Database: &DBConfig{
			Driver:          driver,
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			Path:            viper.GetString("DB_PATH"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		LLM: LLMConfig{
			BaseURL:           strings.TrimRight(viper.GetString("LLM_BASE_URL"), "/"),
			APIKey:            viper.GetString("LLM_API_KEY"),
			Model:             viper.GetString("LLM_MODEL"),
			Timeout:           viper.GetDuration("LLM_TIMEOUT"),
			MaxAttempts:       viper.GetInt("LLM_MAX_ATTEMPTS"),
			RetryDelay:        viper.GetDuration("LLM_RETRY_DELAY"),
			BackoffMultiplier: viper.GetFloat64("LLM_BACKOFF_MULTIPLIER"),
			MalformedRetries:  viper.GetInt("LLM_MALFORMED_RETRIES"),
			Temperature:       viper.GetFloat64("LLM_TEMPERATURE"),
			MaxTokens:         viper.GetInt("LLM_MAX_TOKENS"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:     viper.GetInt("RATE_LIMIT_BURST"),
		},
	}, nil
}
