package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/buildhub/internal/flagx"
	"github.com/dmitrijs2005/buildhub/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "24h" or
// integer nanoseconds. Absent fields keep their current value.
type JsonConfig struct {
	ListenAddr     string          `json:"listen_addr"`
	BasePath       string          `json:"base_path"`
	SecretKey      string          `json:"secret_key"`
	TokenTTL       *timex.Duration `json:"token_ttl"`
	AdminEmail     string          `json:"admin_email"`
	AdminPassword  string          `json:"admin_password"`
	AdminName      string          `json:"admin_name"`
	SeedDemoData   *bool           `json:"seed_demo_data"`
	ResetBaseURL   string          `json:"reset_base_url"`
	ResetTokenTTL  *timex.Duration `json:"reset_token_ttl"`
	MailgunDomain  string          `json:"mailgun_domain"`
	MailgunAPIKey  string          `json:"mailgun_api_key"`
	MailSender     string          `json:"mail_sender"`
	S3RootUser     string          `json:"s3_root_user"`
	S3RootPassword string          `json:"s3_root_password"`
	S3Bucket       string          `json:"s3_bucket"`
	S3Region       string          `json:"s3_region"`
	S3BaseEndpoint string          `json:"s3_base_endpoint"`
	LogBackend     string          `json:"log_backend"`
	Environment    string          `json:"environment"`
}

// parseJson loads the file named by -c or -config, if any, into config.
// Panics if the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JSONConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&config.ListenAddr:     c.ListenAddr,
		&config.BasePath:       c.BasePath,
		&config.SecretKey:      c.SecretKey,
		&config.AdminEmail:     c.AdminEmail,
		&config.AdminPassword:  c.AdminPassword,
		&config.AdminName:      c.AdminName,
		&config.ResetBaseURL:   c.ResetBaseURL,
		&config.MailgunDomain:  c.MailgunDomain,
		&config.MailgunAPIKey:  c.MailgunAPIKey,
		&config.MailSender:     c.MailSender,
		&config.S3RootUser:     c.S3RootUser,
		&config.S3RootPassword: c.S3RootPassword,
		&config.S3Bucket:       c.S3Bucket,
		&config.S3Region:       c.S3Region,
		&config.S3BaseEndpoint: c.S3BaseEndpoint,
		&config.LogBackend:     c.LogBackend,
		&config.Environment:    c.Environment,
	} {
		if v != "" {
			*dst = v
		}
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.ResetTokenTTL != nil {
		config.ResetTokenTTL = c.ResetTokenTTL.Duration
	}
	if c.SeedDemoData != nil {
		config.SeedDemoData = *c.SeedDemoData
	}
}
