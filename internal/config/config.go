// Package config provides application configuration management.
// It loads settings from environment variables (optionally seeded from a
// .env file) and provides defaults for the server, the inventory backend,
// rate limits and the optional observability sinks.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBackendURL matches a Django backend running next to the dialogue engine.
const DefaultBackendURL = "http://localhost:8000/api"

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	ServerName      string

	// Inventory backend
	BackendURL     string
	BackendTimeout time.Duration

	// Action execution
	ActionTimeout time.Duration

	// Per-sender rate limit (token bucket)
	SenderRateBurst  float64 // Maximum burst tokens per sender
	SenderRateRefill float64 // Tokens refilled per second

	// Metrics Authentication
	MetricsAuthEnabled bool
	MetricsUsername    string
	MetricsPassword    string

	// Sentry
	SentryEnabled     bool
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64

	// Better Stack
	BetterStackEnabled  bool
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Missing .env is fine; the process environment is authoritative.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "5055"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),
		ServerName:      getEnv(EnvServerName, "stockbot-actions"),

		BackendURL:     strings.TrimRight(getEnv(EnvBackendURL, DefaultBackendURL), "/"),
		BackendTimeout: getDurationEnv(EnvBackendTimeout, BackendRequest),

		ActionTimeout: getDurationEnv(EnvActionTimeout, ActionProcessing),

		SenderRateBurst:  getFloatEnv(EnvSenderRateBurst, 20.0),
		SenderRateRefill: getFloatEnv(EnvSenderRateRefill, 1.0),

		MetricsAuthEnabled: getBoolEnv(EnvMetricsAuthEnabled, false),
		MetricsUsername:    getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword:    getEnv(EnvMetricsPassword, ""),

		SentryEnabled:     getBoolEnv(EnvSentryEnabled, false),
		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackEnabled:  getBoolEnv(EnvBetterStackEnabled, false),
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration values and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.BackendURL == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvBackendURL))
	} else if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", EnvBackendURL, c.BackendURL))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvBackendTimeout, c.BackendTimeout))
	}
	if c.ActionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvActionTimeout, c.ActionTimeout))
	}
	if c.SenderRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSenderRateBurst, c.SenderRateBurst))
	}
	if c.SenderRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSenderRateRefill, c.SenderRateRefill))
	}
	if c.MetricsAuthEnabled && c.MetricsPassword == "" {
		errs = append(errs, fmt.Errorf("%s is required when metrics auth is enabled", EnvMetricsPassword))
	}
	if c.SentryEnabled && c.SentryDSN == "" {
		errs = append(errs, fmt.Errorf("%s is required when sentry is enabled", EnvSentryDSN))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}
	if c.BetterStackEnabled && c.BetterStackToken == "" {
		errs = append(errs, fmt.Errorf("%s is required when Better Stack is enabled", EnvBetterStackToken))
	}

	return errors.Join(errs...)
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
