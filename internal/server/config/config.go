// Package config handles configuration for the mock backend, including
// defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the BuildHub mock backend.
//
// Fields:
//   - ListenAddr / BasePath: where the REST API is served ("/api" by default).
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenTTL: lifetime of an admin token.
//   - AdminEmail / AdminPassword / AdminName: the seeded operator account.
//   - ResetBaseURL / ResetTokenTTL: password-reset link prefix and lifetime.
//   - Mailgun*: reset e-mail delivery; reset links are logged when unset.
//   - S3*: image storage; images are kept in memory when S3BaseEndpoint is empty.
type Config struct {
	ListenAddr     string
	BasePath       string
	SecretKey      string
	TokenTTL       time.Duration
	AdminEmail     string
	AdminPassword  string
	AdminName      string
	SeedDemoData   bool
	ResetBaseURL   string
	ResetTokenTTL  time.Duration
	MailgunDomain  string
	MailgunAPIKey  string
	MailSender     string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	LogBackend     string
	Environment    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5000"
	c.BasePath = "/api"
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.AdminEmail = "admin@buildhub.in"
	c.AdminPassword = "admin123"
	c.AdminName = "BuildHub Admin"
	c.SeedDemoData = true
	c.ResetBaseURL = "http://localhost:5173/reset-password"
	c.ResetTokenTTL = time.Hour
	c.MailSender = "BuildHub <no-reply@buildhub.in>"
	c.S3Bucket = "buildhub"
	c.S3Region = "us-east-1"
	c.LogBackend = "slog"
	c.Environment = "development"
}

// S3Enabled reports whether images go to an S3-compatible bucket.
func (c *Config) S3Enabled() bool {
	return c.S3BaseEndpoint != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
