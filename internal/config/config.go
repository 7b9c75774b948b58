package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultGatewayURL is the Tapsilat API root used when TAPSILAT_API_URL is unset
const DefaultGatewayURL = "https://panel.tapsilat.dev/api/v1"

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
// once at startup and passed down explicitly
type Config struct {
	Server   ServerConfig
	Gateway  GatewayConfig
	Webhook  WebhookConfig
	Auth     AuthConfig
	CORS     CORSConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// GatewayConfig configures the payment gateway client
type GatewayConfig struct {
	APIKey  string
	BaseURL string
	Timeout int
}

// WebhookConfig configures webhook capture
type WebhookConfig struct {
	Dir       string
	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
}

type AuthConfig struct {
	APIKeys []string // Admin keys for webhook listing; empty leaves it open
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5005"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Gateway: GatewayConfig{
			APIKey:  strings.TrimSpace(os.Getenv("TAPSILAT_API_KEY")),
			BaseURL: getEnv("TAPSILAT_API_URL", DefaultGatewayURL),
			Timeout: getEnvAsInt("TAPSILAT_TIMEOUT", 20),
		},
		Webhook: WebhookConfig{
			Dir:       getEnv("WEBHOOK_DIR", "webhooks"),
			RateLimit: getEnvAsFloat("WEBHOOK_RATE_LIMIT", 20),
			RateBurst: getEnvAsInt("WEBHOOK_RATE_BURST", 40),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("ADMIN_API_KEYS", nil),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Gateway.APIKey == "" {
		return fmt.Errorf("TAPSILAT_API_KEY is required")
	}

	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("TAPSILAT_API_URL must not be empty")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Webhook.Dir == "" {
		return fmt.Errorf("WEBHOOK_DIR must not be empty")
	}

	if c.Webhook.RateLimit < 0 {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
