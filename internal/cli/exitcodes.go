package cli

import (
	"context"
	"errors"

	"github.com/yaklabco/folio/internal/configloader"
)

// Exit codes for folio.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a command failed.
	ExitFailure = 1

	// ExitBuildFailed indicates an export finished with failed files.
	ExitBuildFailed = 2

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInterrupted indicates the command was cancelled.
	ExitInterrupted = 130
)

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrBuildFailed):
		return ExitBuildFailed
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}
