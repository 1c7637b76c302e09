package config

import (
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/geo"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

// Config holds runtime settings for the BuildHub console.
//
// RequestTimeout of zero leaves the HTTP transport default in place.
type Config struct {
	APIBaseURL      string
	GeocoderBaseURL string
	GeocoderCountry string
	SearchDebounce  time.Duration
	RequestTimeout  time.Duration
	StoragePath     string
	LogBackend      string
	Environment     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = api.DefaultBaseURL
	c.GeocoderBaseURL = geo.DefaultBaseURL
	c.GeocoderCountry = geo.DefaultCountry
	c.SearchDebounce = geo.DefaultDebounce
	c.RequestTimeout = 0
	c.StoragePath = "buildhub.db"
	c.LogBackend = logging.BackendSlog
	c.Environment = "development"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
