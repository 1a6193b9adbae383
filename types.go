package rab2html

import (
	"fmt"
	"time"

	"github.com/alnah/go-rab2html/internal/assets"
	"github.com/alnah/go-rab2html/internal/logging"
	"github.com/alnah/go-rab2html/internal/rabbit"
)

// Rendering defaults.
const (
	DefaultSlideWidth  = 640
	DefaultSlideHeight = 480
	DefaultTemplate    = assets.DefaultTemplateName

	// DefaultTimeout is the slide page load timeout of the browser rasterizer.
	DefaultTimeout = 30 * time.Second

	// ImageDirName is the directory under the output base holding slide images.
	ImageDirName = "rabbit-image"

	defaultLogLevel = "info"
)

// Source is one presentation document.
type Source struct {
	Text     string // slide markup
	Encoding string // character encoding of Text; empty means UTF-8
	Dir      string // base directory for relative image paths; optional
}

// RenderConfig holds the per-site rendering settings.
type RenderConfig struct {
	OutputBase string // site destination directory, images go below it
	Width      int    // slide image width in pixels; 0 means DefaultSlideWidth
	Height     int    // slide image height in pixels; 0 means DefaultSlideHeight
	Template   string // template name or path; empty means DefaultTemplate
	LogLevel   string // renderer log verbosity; empty means "info"
}

// Validate checks the configuration.
// Zero values are valid and take defaults.
func (c RenderConfig) Validate() error {
	if c.OutputBase == "" {
		return ErrEmptyOutputBase
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: %dx%d (must not be negative)", ErrInvalidGeometry, c.Width, c.Height)
	}
	if c.LogLevel != "" {
		if _, err := rabbit.ParseSeverity(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// withDefaults returns c with zero fields replaced by defaults.
func (c RenderConfig) withDefaults() RenderConfig {
	if c.Width == 0 {
		c.Width = DefaultSlideWidth
	}
	if c.Height == 0 {
		c.Height = DefaultSlideHeight
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	return c
}

// Rasterizer turns one slide page into a PNG file.
type Rasterizer = rabbit.Rasterizer

// SlidePage is a standalone HTML page holding one slide.
type SlidePage = rabbit.SlidePage

// SlideImage describes one rendered slide as seen by templates.
type SlideImage struct {
	Index  int
	Title  string
	URL    string // site-relative, starts with "/"
	Width  int
	Height int
}

// Result is everything a container carries.
type Result struct {
	Digest    string
	Title     string // title of slide 0
	Image     string // URL of slide 0's image; empty without slides
	Width     int
	Height    int
	SlideHTML string
	Text      string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout   time.Duration
	assetPath string
	workers   int
}

// WithTimeout sets the page load timeout of the default rasterizer.
// Default is 30 seconds.
// Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("rab2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithAssetPath loads templates from a custom directory before the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithRasterizer replaces the browser rasterizer.
// The converter does not close rasterizers it did not create.
func WithRasterizer(r Rasterizer) Option {
	return func(c *Converter) {
		c.rasterizer = r
	}
}

// WithWorkers sets the number of browser instances of the default rasterizer.
// Zero or negative means ResolvePoolSize(0).
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.cfg.workers = n
	}
}

// WithStore adds a second-level container store consulted on memory cache misses.
func WithStore(s Store) Option {
	return func(c *Converter) {
		c.store = s
	}
}

// WithLogger sets the logger for converter and renderer messages.
func WithLogger(l *logging.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithKeepList shares a keep-list with the caller instead of a private one.
func WithKeepList(k *KeepList) Option {
	return func(c *Converter) {
		if k != nil {
			c.keep = k
		}
	}
}
