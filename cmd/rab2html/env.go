package main

import (
	"io"
	"os"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Rasterizer replaces the browser pool when set.
	Rasterizer rab2html.Rasterizer

	// LoadConfig resolves --config values; nil means config.LoadConfig.
	LoadConfig func(nameOrPath string) (*config.Config, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		LoadConfig: config.LoadConfig,
	}
}
