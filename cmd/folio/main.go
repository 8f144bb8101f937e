// Package main is the entry point for the folio CLI.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/yaklabco/folio/internal/cli"
	"github.com/yaklabco/folio/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.ExecuteContext(context.Background())
	// ErrBuildFailed only signals the exit code; the failures were printed.
	if err != nil && !errors.Is(err, cli.ErrBuildFailed) && !errors.Is(err, context.Canceled) {
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCodeFromError(err)
}
