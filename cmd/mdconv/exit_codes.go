package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
	"github.com/alnah/go-mdconv/internal/logging"
)

// Exit codes for the mdconv CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Command completed
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or settings
	ExitIO       = 3 // File not found, unreadable, or not writable
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitRejected = 5 // Input rejected by validation
)

// exitCodeFor returns the exit code for err. Categories are checked from
// most to least specific, so a batch mixing failures reports the first
// matching category.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mdconv.ErrBrowserConnect) ||
		errors.Is(err, mdconv.ErrPageCreate) ||
		errors.Is(err, mdconv.ErrPageLoad) ||
		errors.Is(err, mdconv.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, mdconv.ErrInvalidExtension) ||
		errors.Is(err, mdconv.ErrSizeExceeded) ||
		errors.Is(err, mdconv.ErrBinaryContent) {
		return ExitRejected
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdconv.ErrReadFailure) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrUnknownLevel) ||
		errors.Is(err, logging.ErrUnknownFormat) ||
		errors.Is(err, mdconv.ErrInvalidPageSize) ||
		errors.Is(err, mdconv.ErrInvalidOrientation) ||
		errors.Is(err, mdconv.ErrInvalidMargin) ||
		errors.Is(err, mdconv.ErrStyleNotFound) ||
		errors.Is(err, mdconv.ErrTemplateNotFound) ||
		errors.Is(err, mdconv.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
