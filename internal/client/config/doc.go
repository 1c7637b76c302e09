// Package config loads runtime configuration for the BuildHub console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. A .env file in the working directory and the process environment (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-g string   base URL of the Nominatim geocoder
//	-t int      request timeout in seconds, 0 keeps the transport default
//	-s string   path of the local storage database
//
// Environment
//
//	BUILDHUB_API_URL, BUILDHUB_GEOCODER_URL, BUILDHUB_GEOCODER_COUNTRY,
//	BUILDHUB_REQUEST_TIMEOUT (Go duration or seconds), BUILDHUB_STORAGE,
//	BUILDHUB_LOG_BACKEND, BUILDHUB_ENV
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "500ms" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "geocoder_base_url": "https://nominatim.openstreetmap.org",
//	  "geocoder_country": "in",
//	  "search_debounce": "500ms",
//	  "request_timeout": "30s",
//	  "storage_path": "buildhub.db",
//	  "log_backend": "zap",
//	  "environment": "development"
//	}
package config
