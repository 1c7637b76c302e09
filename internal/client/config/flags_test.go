package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cli", "-a", "http://127.0.0.1:9090/api", "-g", "http://geo", "-t", "10", "-s", "x.db"},
			expected: &Config{APIBaseURL: "http://127.0.0.1:9090/api", GeocoderBaseURL: "http://geo", RequestTimeout: 10 * time.Second, StoragePath: "x.db"}},
		{name: "foreign flags ignored", args: []string{"cli", "-c", "cfg.json", "-s", "y.db", "-v"},
			expected: &Config{StoragePath: "y.db", RequestTimeout: 1500 * time.Millisecond}},
		{name: "incorrect timeout", args: []string{"cli", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{RequestTimeout: 1500 * time.Millisecond}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
