package config

import (
	"flag"
	"os"
	"time"

	"github.com/kaman1990/field-service-sub001/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the sync server (default from Config)
//	-d string   path of the local database file (default from Config)
//	-o string   directory for staged attachment copies (default from Config)
//	-i int      online check interval in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-o", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the sync server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database file")
	fs.StringVar(&cfg.DataDir, "o", cfg.DataDir, "directory for staged attachment copies")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
