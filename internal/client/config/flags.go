package config

import (
	"flag"
	"os"
	"time"

	"github.com/marinesurvey/inspector/internal/flagx"
)

// FlagsWithValue lists the flags of this package that take a value, so the
// CLI can tell them apart from its positional arguments.
var FlagsWithValue = []string{"-a", "-t", "-w", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the API server
//	-t string   bearer token
//	-w int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API server")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer token")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
