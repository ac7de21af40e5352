// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the cache database (always absolute)
	BackendBaseURL string // Remote portfolio backend (orders, lots, realized profits, commission rates)
	LogLevel       string
	Port           int
	DevMode        bool

	// Realized-profit filter pipeline tuning
	FilterDebounce   time.Duration // Quiet window before a filter change triggers a query
	FilterMinLoading time.Duration // Minimum visible loading duration so the UI does not flicker
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic:
	// 1. STOCKFOLIO_DATA_DIR environment variable
	// 2. default to ./data
	// Always resolve to an absolute path and ensure the directory exists.
	dataDir := getEnv("STOCKFOLIO_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		Port:             getEnvAsInt("PORT", 8090),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:8080/api"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		FilterDebounce:   time.Duration(getEnvAsInt("FILTER_DEBOUNCE_MS", 300)) * time.Millisecond,
		FilterMinLoading: time.Duration(getEnvAsInt("FILTER_MIN_LOADING_MS", 200)) * time.Millisecond,
	}

	return cfg, nil
}

// getEnv retrieves an environment variable value, returning a fallback if the
// variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}
