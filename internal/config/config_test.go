package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Save original environment
	originalEnv := map[string]string{
		"PORT":            os.Getenv("PORT"),
		"DATABASE_PATH":   os.Getenv("DATABASE_PATH"),
		"SITE_URL":        os.Getenv("SITE_URL"),
		"ENVIRONMENT":     os.Getenv("ENVIRONMENT"),
		"INDEXNOW_KEY":    os.Getenv("INDEXNOW_KEY"),
		"REDIS_ADDR":      os.Getenv("REDIS_ADDR"),
		"METRICS_ENABLED": os.Getenv("METRICS_ENABLED"),
	}

	// Clean up after test
	defer func() {
		for key, value := range originalEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	tests := []struct {
		name     string
		envVars  map[string]string
		expected *Config
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			expected: &Config{
				Port:             8080,
				DatabasePath:     "seoengine.db",
				SiteURL:          "http://localhost:8080",
				Environment:      "development",
				IndexNowKey:      "",
				IndexNowEndpoint: "https://api.indexnow.org/indexnow",
				RedisAddr:        "",
				MetricsEnabled:   true,
			},
		},
		{
			name: "custom values from environment",
			envVars: map[string]string{
				"PORT":            "9090",
				"DATABASE_PATH":   "/data/seo.sqlite",
				"SITE_URL":        "https://streamdeals.example.com",
				"ENVIRONMENT":     "production",
				"INDEXNOW_KEY":    "abc123",
				"REDIS_ADDR":      "localhost:6379",
				"METRICS_ENABLED": "false",
			},
			expected: &Config{
				Port:             9090,
				DatabasePath:     "/data/seo.sqlite",
				SiteURL:          "https://streamdeals.example.com",
				Environment:      "production",
				IndexNowKey:      "abc123",
				IndexNowEndpoint: "https://api.indexnow.org/indexnow",
				RedisAddr:        "localhost:6379",
				MetricsEnabled:   false,
			},
		},
		{
			name: "invalid port falls back to default",
			envVars: map[string]string{
				"PORT": "invalid",
			},
			expected: &Config{
				Port:             8080,
				DatabasePath:     "seoengine.db",
				SiteURL:          "http://localhost:8080",
				Environment:      "development",
				IndexNowEndpoint: "https://api.indexnow.org/indexnow",
				MetricsEnabled:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			for key := range originalEnv {
				os.Unsetenv(key)
			}

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()
			if err != nil {
				t.Errorf("Load() error = %v", err)
				return
			}

			if cfg.Port != tt.expected.Port {
				t.Errorf("Load() Port = %v, want %v", cfg.Port, tt.expected.Port)
			}
			if cfg.DatabasePath != tt.expected.DatabasePath {
				t.Errorf("Load() DatabasePath = %v, want %v", cfg.DatabasePath, tt.expected.DatabasePath)
			}
			if cfg.SiteURL != tt.expected.SiteURL {
				t.Errorf("Load() SiteURL = %v, want %v", cfg.SiteURL, tt.expected.SiteURL)
			}
			if cfg.Environment != tt.expected.Environment {
				t.Errorf("Load() Environment = %v, want %v", cfg.Environment, tt.expected.Environment)
			}
			if cfg.IndexNowKey != tt.expected.IndexNowKey {
				t.Errorf("Load() IndexNowKey = %v, want %v", cfg.IndexNowKey, tt.expected.IndexNowKey)
			}
			if cfg.IndexNowEndpoint != tt.expected.IndexNowEndpoint {
				t.Errorf("Load() IndexNowEndpoint = %v, want %v", cfg.IndexNowEndpoint, tt.expected.IndexNowEndpoint)
			}
			if cfg.RedisAddr != tt.expected.RedisAddr {
				t.Errorf("Load() RedisAddr = %v, want %v", cfg.RedisAddr, tt.expected.RedisAddr)
			}
			if cfg.MetricsEnabled != tt.expected.MetricsEnabled {
				t.Errorf("Load() MetricsEnabled = %v, want %v", cfg.MetricsEnabled, tt.expected.MetricsEnabled)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name     string
		fallback int
		envValue string
		expected int
	}{
		{
			name:     "valid integer",
			fallback: 8080,
			envValue: "9090",
			expected: 9090,
		},
		{
			name:     "invalid integer",
			fallback: 8080,
			envValue: "invalid",
			expected: 8080,
		},
		{
			name:     "empty value",
			fallback: 8080,
			envValue: "",
			expected: 8080,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer os.Unsetenv("TEST_INT")

			if tt.envValue != "" {
				os.Setenv("TEST_INT", tt.envValue)
			}

			result := getEnvAsInt("TEST_INT", tt.fallback)
			if result != tt.expected {
				t.Errorf("getEnvAsInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name     string
		fallback bool
		envValue string
		expected bool
	}{
		{
			name:     "true value",
			fallback: false,
			envValue: "true",
			expected: true,
		},
		{
			name:     "false value",
			fallback: true,
			envValue: "false",
			expected: false,
		},
		{
			name:     "invalid value",
			fallback: true,
			envValue: "not-a-bool",
			expected: true,
		},
		{
			name:     "empty value",
			fallback: true,
			envValue: "",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer os.Unsetenv("TEST_BOOL")

			if tt.envValue != "" {
				os.Setenv("TEST_BOOL", tt.envValue)
			}

			result := getEnvAsBool("TEST_BOOL", tt.fallback)
			if result != tt.expected {
				t.Errorf("getEnvAsBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}
