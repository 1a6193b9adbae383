package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/assets"
	"github.com/alnah/go-rab2html/internal/config"
	"github.com/alnah/go-rab2html/internal/hints"
)

// Sentinel errors for command I/O.
var (
	ErrInvalidExtension = errors.New("file must have a .rab extension")
	ErrReadInput        = errors.New("failed to read input")
	ErrWriteOutput      = errors.New("failed to write output")
	ErrCacheConnect     = errors.New("failed to connect to container cache")
)

// cacheError reports an unreachable container cache.
type cacheError struct {
	addr string
	err  error
}

func (e *cacheError) Error() string {
	return fmt.Sprintf("%v at %s: %v", ErrCacheConnect, e.addr, e.err)
}

func (e *cacheError) Unwrap() []error {
	return []error{ErrCacheConnect, e.err}
}

// printError writes err and, when one applies, a hint.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
}

// hintFor returns the hint matching err, or "".
func hintFor(err error) string {
	var cacheErr *cacheError
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(searchedPaths(err))
	case errors.Is(err, rab2html.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, rab2html.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, rab2html.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(assets.EmbeddedTemplateNames())
	case errors.Is(err, rab2html.ErrImageDirectory), errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.As(err, &cacheErr):
		return hints.ForRedisConnect(cacheErr.addr)
	}
	return ""
}

// searchedPaths recovers the locations listed by a config lookup failure.
func searchedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
