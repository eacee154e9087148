package main

import (
	"errors"
	"os"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/bundle"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/resolve"
)

// Exit codes for the md2deck CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Missing source, unreadable data, write failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2deck.ErrBrowserConnect) ||
		errors.Is(err, md2deck.ErrPageCreate) ||
		errors.Is(err, md2deck.ErrPageLoad) ||
		errors.Is(err, md2deck.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2). Checked before I/O so a
	// missing config file is reported as a usage problem.
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2deck.ErrNilConfig) ||
		errors.Is(err, md2deck.ErrInvalidConfig) ||
		errors.Is(err, md2deck.ErrStyleNotFound) ||
		errors.Is(err, md2deck.ErrTemplateNotFound) ||
		errors.Is(err, md2deck.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrTooManyArgs) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2deck.ErrSourceNotFound) ||
		errors.Is(err, md2deck.ErrSourceRead) ||
		errors.Is(err, md2deck.ErrWriteOutput) ||
		errors.Is(err, resolve.ErrDataRead) ||
		errors.Is(err, bundle.ErrNotDirectory) ||
		errors.Is(err, bundle.ErrEmptySource) ||
		errors.Is(err, ErrProjectExists) ||
		errors.Is(err, ErrWriteFile) {
		return ExitIO
	}

	return ExitGeneral
}
