package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only -a, -g, -t and -s are considered; other arguments are left to their owners.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-t", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.GeocoderBaseURL, "g", cfg.GeocoderBaseURL, "base URL of the geocoder")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "path of the local storage database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
