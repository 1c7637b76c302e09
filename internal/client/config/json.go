package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/buildhub/internal/flagx"
	"github.com/dmitrijs2005/buildhub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	APIBaseURL      string          `json:"api_base_url"`
	GeocoderBaseURL string          `json:"geocoder_base_url"`
	GeocoderCountry string          `json:"geocoder_country"`
	SearchDebounce  *timex.Duration `json:"search_debounce"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	StoragePath     string          `json:"storage_path"`
	LogBackend      string          `json:"log_backend"`
	Environment     string          `json:"environment"`
}

// parseJson overlays Config with the fields present in the file named by -c
// or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.GeocoderBaseURL, jc.GeocoderBaseURL)
	setString(&cfg.GeocoderCountry, jc.GeocoderCountry)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.Environment, jc.Environment)
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
