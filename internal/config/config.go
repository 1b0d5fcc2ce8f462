package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port             int    `json:"port"`
	DatabasePath     string `json:"database_path"`
	SiteURL          string `json:"site_url"`
	Environment      string `json:"environment"`
	IndexNowKey      string `json:"indexnow_key"`
	IndexNowEndpoint string `json:"indexnow_endpoint"`
	RedisAddr        string `json:"redis_addr"`
	RedisPassword    string `json:"-"`
	RedisDB          int    `json:"redis_db"`
	LogLevel         string `json:"log_level"`
	LogFile          string `json:"log_file"`
	MetricsEnabled   bool   `json:"metrics_enabled"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8080),
		DatabasePath:     getEnv("DATABASE_PATH", "seoengine.db"),
		SiteURL:          getEnv("SITE_URL", "http://localhost:8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		IndexNowKey:      getEnv("INDEXNOW_KEY", ""),
		IndexNowEndpoint: getEnv("INDEXNOW_ENDPOINT", "https://api.indexnow.org/indexnow"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		MetricsEnabled:   getEnvAsBool("METRICS_ENABLED", true),
	}

	return cfg, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
