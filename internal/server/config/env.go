package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dotenvFiles are loaded before the environment is read; missing files are skipped.
var dotenvFiles = []string{".env"}

func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	config.ListenAddr = getEnv("MOCKAPI_ADDR", config.ListenAddr)
	config.SecretKey = getEnv("JWT_SECRET", config.SecretKey)
	config.AdminEmail = getEnv("ADMIN_EMAIL", config.AdminEmail)
	config.AdminPassword = getEnv("ADMIN_PASSWORD", config.AdminPassword)
	config.SeedDemoData = getEnvAsBool("SEED_DEMO_DATA", config.SeedDemoData)
	config.ResetBaseURL = getEnv("RESET_BASE_URL", config.ResetBaseURL)
	config.MailgunDomain = getEnv("MAILGUN_DOMAIN", config.MailgunDomain)
	config.MailgunAPIKey = getEnv("MAILGUN_API_KEY", config.MailgunAPIKey)
	config.MailSender = getEnv("MAILGUN_SENDER", config.MailSender)
	config.S3RootUser = getEnv("S3_ROOT_USER", config.S3RootUser)
	config.S3RootPassword = getEnv("S3_ROOT_PASSWORD", config.S3RootPassword)
	config.S3Bucket = getEnv("S3_BUCKET", config.S3Bucket)
	config.S3Region = getEnv("S3_REGION", config.S3Region)
	config.S3BaseEndpoint = getEnv("S3_BASE_ENDPOINT", config.S3BaseEndpoint)
	config.LogBackend = getEnv("LOG_BACKEND", config.LogBackend)
	config.Environment = getEnv("ENVIRONMENT", config.Environment)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}
