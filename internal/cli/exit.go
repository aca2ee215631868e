package cli

import (
	"errors"

	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/fiware-datamodels/dmv/pkg/schema"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailed   = 1 // the scan recorded errors, or any unclassified error
	ExitUsage    = 2 // invalid configuration or command line
	ExitBadInput = 3 // malformed JSON or an unsupported option
	ExitAborted  = 4 // stopped by failWarnings or failErrors
)

// ExitCode maps the error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *config.Error
	var parseErr *schema.ParseError
	var abortErr *report.AbortError

	switch {
	case errors.As(err, &cfgErr):
		return ExitUsage
	case errors.As(err, &parseErr), errors.Is(err, schema.ErrNotImplemented):
		return ExitBadInput
	case errors.As(err, &abortErr):
		return ExitAborted
	default:
		return ExitFailed
	}
}

// IsUsageError reports whether err should be followed by a usage hint.
func IsUsageError(err error) bool {
	return ExitCode(err) == ExitUsage
}
