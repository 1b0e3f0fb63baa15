// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Redis (rate limiting)
	RedisURL           string
	RateLimitEnabled   bool
	RateLimitPerWindow int

	// Security
	JWTSecret        string
	JWTExpiresInDays int

	// AWS (document storage + invoice email)
	AWSRegion      string
	S3Bucket       string
	SESSenderEmail string

	// CORS
	CORSOrigins []string

	// Feature flags. Parsed for forward compatibility; no code path
	// acts on them in this version.
	EnableMLPredictions bool
	EnableAINegotiation bool

	// Application
	Stage    string
	LogLevel string
	Port     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnv("DB_NAME", "rate_engine"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		RateLimitEnabled:   getEnvBool("RATE_LIMITING_ENABLED", false),
		RateLimitPerWindow: getEnvInt("RATE_LIMIT_PER_HOUR", 100),

		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		JWTExpiresInDays: getEnvInt("JWT_EXPIRES_IN_DAYS", 7),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", "rate-engine-documents-dev"),
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		EnableMLPredictions: getEnvBool("ENABLE_ML_PREDICTIONS", false),
		EnableAINegotiation: getEnvBool("ENABLE_AI_NEGOTIATION", false),

		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require"
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" +
		strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as bool or returns a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
