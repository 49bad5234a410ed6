package config

import (
	"flag"
	"os"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend REST API (default from Config)
//	-k string   identity-provider project API key
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("qbank", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend REST API")
	fs.StringVar(&cfg.IdentityAPIKey, "k", cfg.IdentityAPIKey, "identity provider API key")

	if err := fs.Parse(os.Args[1:]); err != nil {
		panic(err)
	}
}
