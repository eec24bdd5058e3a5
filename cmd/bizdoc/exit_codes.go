package main

import (
	"errors"
	"os"

	bizdoc "github.com/alnah/go-bizdoc"
	"github.com/alnah/go-bizdoc/internal/config"
)

// Exit codes for the bizdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or document
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser crash, timeout or launch failure
)

// exitCodeFor returns the exit code for err. Callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch bizdoc.CategoryOf(err) {
	case bizdoc.CategoryEngineCrashed, bizdoc.CategoryTimeout:
		return ExitBrowser
	}
	if errors.Is(err, bizdoc.ErrBrowserConnect) || errors.Is(err, bizdoc.ErrPageCreate) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadDocument) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrParseDocument) ||
		errors.Is(err, bizdoc.ErrInvalidDocumentType) ||
		errors.Is(err, bizdoc.ErrEmptyTitle) ||
		errors.Is(err, bizdoc.ErrInvalidStatus) ||
		errors.Is(err, bizdoc.ErrDocumentNotCompleted) ||
		errors.Is(err, bizdoc.ErrInvalidLayout) ||
		errors.Is(err, bizdoc.ErrInvalidFontTiers) ||
		errors.Is(err, bizdoc.ErrInvalidDateFormat) ||
		errors.Is(err, bizdoc.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
