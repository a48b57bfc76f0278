package config

import (
	"flag"
	"os"
	"time"

	"github.com/usattar/mintvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   JSON-RPC endpoint of the chain node
//	-d string   SQLite DSN of the local record cache
//	-k string   keystore directory
//	-t int      confirmation timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-d", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RPCEndpoint, "r", cfg.RPCEndpoint, "JSON-RPC endpoint of the chain node")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "SQLite DSN of the local record cache")
	fs.StringVar(&cfg.KeystoreDir, "k", cfg.KeystoreDir, "keystore directory")
	confirmTimeout := fs.Int("t", int(cfg.ConfirmTimeout.Seconds()), "confirmation timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ConfirmTimeout = time.Duration(*confirmTimeout) * time.Second
}
