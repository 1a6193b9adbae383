package main

import (
	"errors"
	"os"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/assets"
	"github.com/alnah/go-rab2html/internal/config"
	"github.com/alnah/go-rab2html/internal/rabbit"
	"github.com/alnah/go-rab2html/internal/site"
)

// Exit codes for rab2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful command
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, rab2html.ErrBrowserConnect) ||
		errors.Is(err, rab2html.ErrPageLoad) ||
		errors.Is(err, rab2html.ErrScreenshot) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, rab2html.ErrEmptyOutputBase) ||
		errors.Is(err, rab2html.ErrInvalidGeometry) ||
		errors.Is(err, rab2html.ErrTemplateNotFound) ||
		errors.Is(err, rab2html.ErrTemplateRender) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, rabbit.ErrUsage) ||
		errors.Is(err, rabbit.ErrInvalidSize) ||
		errors.Is(err, rabbit.ErrUnknownEncoding) ||
		errors.Is(err, site.ErrSameDirectories) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrConflictingFlags) ||
		errors.Is(err, ErrInvalidExtension) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, rab2html.ErrImageDirectory) ||
		errors.Is(err, rabbit.ErrReadSource) ||
		errors.Is(err, site.ErrReadDeck) ||
		errors.Is(err, site.ErrWritePage) ||
		errors.Is(err, site.ErrCopyFile) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrCacheConnect) {
		return ExitIO
	}

	return ExitGeneral
}
