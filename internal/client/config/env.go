package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFiles are loaded before the environment is read. Missing files are
// ignored and variables already set in the process win.
var dotenvFiles = []string{".env"}

func parseEnv(cfg *Config) {
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	cfg.APIBaseURL = getEnv("BUILDHUB_API_URL", cfg.APIBaseURL)
	cfg.GeocoderBaseURL = getEnv("BUILDHUB_GEOCODER_URL", cfg.GeocoderBaseURL)
	cfg.GeocoderCountry = getEnv("BUILDHUB_GEOCODER_COUNTRY", cfg.GeocoderCountry)
	cfg.RequestTimeout = getEnvAsDuration("BUILDHUB_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.StoragePath = getEnv("BUILDHUB_STORAGE", cfg.StoragePath)
	cfg.LogBackend = getEnv("BUILDHUB_LOG_BACKEND", cfg.LogBackend)
	cfg.Environment = getEnv("BUILDHUB_ENV", cfg.Environment)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts a Go duration ("30s") or whole seconds ("30").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
