package main

import (
	"errors"
	"os"

	"github.com/alnah/go-bfm"
	"github.com/alnah/go-bfm/internal/assets"
	"github.com/alnah/go-bfm/internal/config"
	"github.com/alnah/go-bfm/internal/logging"
	"github.com/alnah/go-bfm/internal/merge"
)

// Exit codes for bfm CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, bfm.ErrInvalidTOCDepth) ||
		errors.Is(err, bfm.ErrInvalidWordsPerMinute) ||
		errors.Is(err, bfm.ErrInvalidDirectiveName) ||
		errors.Is(err, bfm.ErrUnknownHostExtension) ||
		errors.Is(err, bfm.ErrInputTooLarge) ||
		errors.Is(err, merge.ErrUnknownStrategy) ||
		errors.Is(err, logging.ErrUnknownLevel) ||
		errors.Is(err, logging.ErrUnknownFormat) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidStyleName) {
		return ExitUsage
	}

	return ExitGeneral
}
