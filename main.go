package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tphakala/mediaflow/cmd"
	"github.com/tphakala/mediaflow/internal/buildinfo"
	"github.com/tphakala/mediaflow/internal/conf"
	"github.com/tphakala/mediaflow/internal/logging"
)

// version and buildDate are populated at build time via -ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if settings.Debug {
		logging.SetLevel(slog.LevelDebug)
	}

	build := &buildinfo.Context{
		Version:   version,
		BuildDate: buildDate,
	}

	rootCmd := cmd.RootCommand(settings, build)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		os.Exit(1)
	}
}
