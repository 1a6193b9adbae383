package rab2html

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alnah/go-rab2html/internal/assets"
	"github.com/alnah/go-rab2html/internal/fileutil"
	"github.com/alnah/go-rab2html/internal/logging"
	"github.com/alnah/go-rab2html/internal/rabbit"
)

// Compile-time interface implementation checks.
var (
	_ rabbit.Rasterizer = (*RasterizerPool)(nil)
	_ rabbit.Rasterizer = (*rodRasterizer)(nil)
	_ SlideTemplate     = htmlSlideTemplate{}
)

// Converter turns slide documents into container strings.
// Create with NewConverter, use Convert for conversion, and Close when done.
// A Converter is safe for concurrent use.
type Converter struct {
	cfg        converterConfig
	assets     assets.AssetLoader
	rasterizer rabbit.Rasterizer
	ownsRaster bool
	store      Store
	logger     *logging.Logger
	keep       *KeepList
	cache      *renderCache

	tmplMu    sync.Mutex
	templates map[string]SlideTemplate

	// runCommand runs the renderer; replaced in tests.
	runCommand func(ctx context.Context, env *rabbit.Env, args ...string) error
}

// NewConverter creates a Converter.
// Without WithRasterizer, slides are rasterized by a pool of headless
// browsers started on first use.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:        converterConfig{timeout: DefaultTimeout},
		assets:     assets.NewEmbeddedLoader(),
		keep:       NewKeepList(),
		cache:      newRenderCache(),
		templates:  make(map[string]SlideTemplate),
		runCommand: rabbit.Run,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		c.assets = resolver
	}

	if c.logger == nil {
		c.logger = logging.Discard()
	}

	if c.rasterizer == nil {
		c.rasterizer = NewRasterizerPool(ResolvePoolSize(c.cfg.workers), c.cfg.timeout)
		c.ownsRaster = true
	}

	return c, nil
}

// RegisterTemplate makes t available under name, ahead of bundled and
// file templates.
func (c *Converter) RegisterTemplate(name string, t SlideTemplate) {
	c.tmplMu.Lock()
	c.templates[name] = t
	c.tmplMu.Unlock()
}

// KeepList returns the paths the converter asked a cleanup sweep to keep.
func (c *Converter) KeepList() *KeepList {
	return c.keep
}

// Convert renders src and returns its container string.
//
// The digest of the trimmed text and the output base form the cache key: a
// document already rendered into that output base is returned from cache
// without touching the filesystem or the renderer, whatever the rest of cfg
// says. An empty output base is served by any earlier render of the
// document. Slide images are written under
// <cfg.OutputBase>/rabbit-image/<digest>/.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, src Source, cfg RenderConfig) (container string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrRender, r)
		}
	}()

	text := strings.TrimSpace(src.Text)
	digest := digestBytes([]byte(text))
	base := cleanBase(cfg.OutputBase)
	if s, ok := c.cache.get(digest, base); ok {
		return s, nil
	}

	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = severityName(c.logger.Level())
	}
	cfg = cfg.withDefaults()

	return c.cache.do(digest, base, func() (string, error) {
		if s, ok := c.loadStored(ctx, digest, cfg); ok {
			return s, nil
		}
		return c.render(ctx, digest, text, src, cfg)
	})
}

// Result converts src and decodes the container into its parts.
func (c *Converter) Result(ctx context.Context, src Source, cfg RenderConfig) (*Result, error) {
	s, err := c.Convert(ctx, src, cfg)
	if err != nil {
		return nil, err
	}
	return Decode(s)
}

// cleanBase normalizes an output base for cache keys. Empty stays empty.
func cleanBase(base string) string {
	if base == "" {
		return ""
	}
	return filepath.Clean(base)
}

func (c *Converter) render(ctx context.Context, digest, text string, src Source, cfg RenderConfig) (string, error) {
	outputBase := filepath.Clean(cfg.OutputBase)
	imageDir := filepath.Join(outputBase, ImageDirName, digest)

	c.keep.Add(ImageDirName+"$", ImageDirName+"/"+digest+"$")

	if !dirExists(imageDir) {
		if err := os.MkdirAll(imageDir, 0o750); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrImageDirectory, imageDir, err)
		}
		c.logger.Debug(logTopic, "created slide image directory %q", imageDir)
	}

	args := renderArgs(text, filepath.Join(imageDir, "slide"), src, cfg)
	c.logger.Debug(logTopic, "rendering %s (%d bytes)", digest, len(text))

	inv, err := c.invoke(ctx, args)
	if err != nil {
		return "", err
	}

	var (
		images     = make([]SlideImage, 0, len(inv.Slides))
		keep       = make([]string, 0, len(inv.Slides))
		title      string
		titleImage string
	)
	for _, s := range inv.Slides {
		rel := sitePath(outputBase, s.Image)
		url := "/" + rel
		c.logger.Debug(logTopic, "image generated #%d %s as %s", s.Index, s.Title, rel)

		images = append(images, SlideImage{
			Index:  s.Index,
			Title:  s.Title,
			URL:    url,
			Width:  cfg.Width,
			Height: cfg.Height,
		})
		if s.Index == 0 {
			title = s.Title
			titleImage = url
		}
		keep = append(keep, rel)
	}
	c.keep.Add(keep...)

	tmpl, err := c.loadTemplate(cfg.Template)
	if err != nil {
		return "", err
	}
	slideHTML, err := tmpl.Render(digest, images)
	if err != nil {
		return "", err
	}

	container := Encode(Result{
		Digest:    digest,
		Title:     title,
		Image:     titleImage,
		Width:     cfg.Width,
		Height:    cfg.Height,
		SlideHTML: slideHTML,
		Text:      inv.Text,
	})
	c.saveStored(ctx, digest, StoredEntry{Container: container, Keep: keep})
	return container, nil
}

// loadStored consults the second-level store. An entry is used only when
// every image it refers to still exists under the output base.
func (c *Converter) loadStored(ctx context.Context, digest string, cfg RenderConfig) (string, bool) {
	if c.store == nil {
		return "", false
	}
	entry, ok, err := c.store.Get(ctx, digest)
	if err != nil {
		c.logger.Warn(logTopic, "cache store lookup failed for %s: %v", digest, err)
		return "", false
	}
	if !ok {
		return "", false
	}

	outputBase := filepath.Clean(cfg.OutputBase)
	for _, rel := range entry.Keep {
		if !fileutil.FileExists(filepath.Join(outputBase, filepath.FromSlash(rel))) {
			c.logger.Debug(logTopic, "cached images of %s are gone, rendering again", digest)
			return "", false
		}
	}

	c.keep.Add(ImageDirName+"$", ImageDirName+"/"+digest+"$")
	c.keep.Add(entry.Keep...)
	c.logger.Debug(logTopic, "reusing stored container %s", digest)
	return entry.Container, true
}

func (c *Converter) saveStored(ctx context.Context, digest string, entry StoredEntry) {
	if c.store == nil {
		return
	}
	if err := c.store.Put(ctx, digest, entry); err != nil {
		c.logger.Warn(logTopic, "cache store write failed for %s: %v", digest, err)
	}
}

// Close releases the browsers of the default rasterizer.
func (c *Converter) Close() error {
	if c.ownsRaster {
		if closer, ok := c.rasterizer.(interface{ Close() error }); ok {
			return closer.Close()
		}
	}
	return nil
}

// sitePath returns path relative to outputBase with forward slashes.
func sitePath(outputBase, path string) string {
	rel, err := filepath.Rel(outputBase, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(strings.TrimPrefix(path, outputBase+string(filepath.Separator)))
	}
	return filepath.ToSlash(rel)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
