// Package config loads kvitt configuration from environment variables
// and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string
	// QueriesPath is the saved-query file for `kvitt query`.
	QueriesPath string
	// CapitalizeItemNames title-cases item names on write.
	CapitalizeItemNames bool
	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	LogLevel string
}

// Load loads configuration from environment variables.
// It automatically loads a .env file from the current directory if
// available; a custom path can be given instead.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	} else {
		// Missing .env in the working directory is fine.
		_ = godotenv.Load()
	}

	capitalize, err := parseBoolEnv("KVITT_CAPITALIZE_ITEM_NAMES", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		DBPath:              getEnvOrDefault("KVITT_DB", "kvitt.db"),
		QueriesPath:         getEnvOrDefault("KVITT_QUERIES", "queries.yaml"),
		CapitalizeItemNames: capitalize,
		LogLevel:            getEnvOrDefault("KVITT_LOG_LEVEL", "warn"),
	}, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
