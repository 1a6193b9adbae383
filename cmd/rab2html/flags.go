package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	rab2html "github.com/alnah/go-rab2html"
)

// Sentinel errors for flag validation.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrConflictingFlags   = errors.New("conflicting flags")
)

// globalFlags holds flags shared across commands.
type globalFlags struct {
	config  string
	quiet   bool
	verbose bool
	timeout time.Duration
	workers int
}

// register adds the persistent flags to the root command.
func (g *globalFlags) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&g.config, "config", "c", "", "config name or path")
	f.BoolVarP(&g.quiet, "quiet", "q", false, "only print errors")
	f.BoolVarP(&g.verbose, "verbose", "v", false, "print debug messages")
	f.DurationVarP(&g.timeout, "timeout", "t", 0, "slide page load timeout (default 30s)")
	f.IntVarP(&g.workers, "workers", "w", 0, "parallel browsers and documents (0 = auto)")
}

// validate checks flag values and combinations.
func (g *globalFlags) validate() error {
	if g.quiet && g.verbose {
		return fmt.Errorf("%w: --quiet and --verbose", ErrConflictingFlags)
	}
	if g.timeout < 0 {
		return fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, g.timeout)
	}
	return validateWorkers(g.workers)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > rab2html.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, rab2html.MaxPoolSize)
	}
	return nil
}

// logLevel maps --quiet and --verbose onto a level name, or "" for none.
func (g *globalFlags) logLevel() string {
	switch {
	case g.verbose:
		return "debug"
	case g.quiet:
		return "error"
	}
	return ""
}
