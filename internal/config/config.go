// Package config loads process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/secret"
)

// Config is everything the process reads from the environment.
type Config struct {
	ServerAddr       string
	LogLevel         string
	HTTPProxyURL     string
	ConnectorTimeout time.Duration

	RedisAddr string

	OpayoBaseURL  string
	StripeBaseURL string

	// Default credentials, used to seed the in-memory credential store
	// when no Redis-backed store is configured.
	DefaultMerchantID string
	OpayoAPIKey       secret.Secret[string]
	StripeAPIKey      secret.Secret[string]
}

// Load reads configuration. A missing .env file is not an error; the
// process environment always wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeoutMS, err := getEnvInt("CONNECTOR_TIMEOUT_MS", 10000)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HTTPProxyURL:      getEnv("HTTP_PROXY_URL", ""),
		ConnectorTimeout:  time.Duration(timeoutMS) * time.Millisecond,
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		OpayoBaseURL:      getEnv("OPAYO_BASE_URL", ""),
		StripeBaseURL:     getEnv("STRIPE_BASE_URL", ""),
		DefaultMerchantID: getEnv("DEFAULT_MERCHANT_ID", "merchant_default"),
		OpayoAPIKey:       secret.New(getEnv("OPAYO_API_KEY", "")),
		StripeAPIKey:      secret.New(getEnv("STRIPE_API_KEY", "")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.FromConfiguration(fmt.Errorf("%s must be an integer: %w", key, err))
	}
	return parsed, nil
}
