// Package site builds a static site from a source tree: slide documents
// become HTML pages, other files are copied, and files the build no longer
// produces are swept from the destination.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/fileutil"
	"github.com/alnah/go-rab2html/internal/logging"
)

const topic = "Site:"

// Sentinel errors for site builds.
var (
	ErrEmptySource      = errors.New("source directory cannot be empty")
	ErrEmptyDestination = errors.New("destination directory cannot be empty")
	ErrSameDirectories  = errors.New("source and destination must differ")
	ErrReadDeck         = errors.New("failed to read slide document")
	ErrWritePage        = errors.New("failed to write page")
	ErrCopyFile         = errors.New("failed to copy file")
)

// DeckConverter converts one slide document into a container.
type DeckConverter interface {
	Convert(ctx context.Context, src rab2html.Source, cfg rab2html.RenderConfig) (string, error)
	KeepList() *rab2html.KeepList
}

// Compile-time interface implementation check.
var _ DeckConverter = (*rab2html.Converter)(nil)

// Options configures a Builder.
type Options struct {
	Source      string
	Destination string
	Exclude     []string // glob patterns over source-relative paths or base names
	KeepFiles   []string // destination-relative paths the sweep leaves alone
	Workers     int      // parallel documents; 0 means auto
	Render      rab2html.RenderConfig
	Logger      *logging.Logger
}

// Report lists what a build did. Paths are destination-relative with
// forward slashes.
type Report struct {
	Converted []string
	Copied    []string
	Removed   []string
	Duration  time.Duration
}

// Builder runs site builds.
type Builder struct {
	conv   DeckConverter
	opts   Options
	keep   *rab2html.KeepList
	logger *logging.Logger
}

// NewBuilder checks opts and returns a Builder converting decks with conv.
func NewBuilder(conv DeckConverter, opts Options) (*Builder, error) {
	if opts.Source == "" {
		return nil, ErrEmptySource
	}
	if opts.Destination == "" {
		return nil, ErrEmptyDestination
	}
	src, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("resolving source: %w", err)
	}
	dst, err := filepath.Abs(opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolving destination: %w", err)
	}
	if src == dst {
		return nil, fmt.Errorf("%w: %s", ErrSameDirectories, src)
	}
	for _, p := range opts.Exclude {
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}
	opts.Source, opts.Destination = src, dst
	opts.Render.OutputBase = dst

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Builder{
		conv:   conv,
		opts:   opts,
		keep:   rab2html.NewKeepList(opts.KeepFiles...),
		logger: logger,
	}, nil
}

// entry is one source file and where it lands.
type entry struct {
	src  string
	rel  string // destination-relative, slash separated
	deck bool
}

// Build converts and copies every source file, then sweeps the destination.
// The first failing file cancels the rest.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()

	entries, err := b.discover()
	if err != nil {
		return nil, err
	}
	b.logger.Debug(topic, "found %d file(s) in %s", len(entries), b.opts.Source)

	if err := os.MkdirAll(b.opts.Destination, 0o750); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	report := &Report{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rab2html.ResolvePoolSize(b.opts.Workers))
	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if e.deck {
				if err := b.convertDeck(gctx, e); err != nil {
					return err
				}
				mu.Lock()
				report.Converted = append(report.Converted, e.rel)
				mu.Unlock()
				return nil
			}
			if err := fileutil.CopyFile(e.src, b.destPath(e.rel)); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrCopyFile, e.src, err)
			}
			mu.Lock()
			report.Copied = append(report.Copied, e.rel)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	produced := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		produced[e.rel] = struct{}{}
	}
	removed, err := b.sweep(produced)
	if err != nil {
		return nil, err
	}

	sort.Strings(report.Converted)
	sort.Strings(report.Copied)
	report.Removed = removed
	report.Duration = time.Since(start)

	b.logger.Info(topic, "converted %d deck(s), copied %d file(s), removed %d in %s",
		len(report.Converted), len(report.Copied), len(report.Removed), report.Duration.Round(time.Millisecond))
	return report, nil
}

func (b *Builder) convertDeck(ctx context.Context, e entry) error {
	data, err := os.ReadFile(e.src) // #nosec G304 -- discovered path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadDeck, err)
	}

	container, err := b.conv.Convert(ctx, rab2html.Source{
		Text: string(data),
		Dir:  filepath.Dir(e.src),
	}, b.opts.Render)
	if err != nil {
		return fmt.Errorf("converting %s: %w", e.src, err)
	}

	if err := fileutil.WriteFile(b.destPath(e.rel), []byte(container)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWritePage, e.rel, err)
	}
	b.logger.Debug(topic, "%s -> %s", e.src, e.rel)
	return nil
}

func (b *Builder) destPath(rel string) string {
	return filepath.Join(b.opts.Destination, filepath.FromSlash(rel))
}

// discover walks the source tree. Hidden entries, excluded entries and the
// destination are skipped.
func (b *Builder) discover() ([]entry, error) {
	var entries []entry
	err := filepath.WalkDir(b.opts.Source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		if p == b.opts.Source {
			return nil
		}
		rel, err := filepath.Rel(b.opts.Source, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p == b.opts.Destination || b.skipped(rel, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if b.skipped(rel, d.Name()) || !d.Type().IsRegular() {
			return nil
		}

		if IsDeck(p) {
			entries = append(entries, entry{src: p, rel: PagePath(rel), deck: true})
		} else {
			entries = append(entries, entry{src: p, rel: rel})
		}
		return nil
	})
	return entries, err
}

func (b *Builder) skipped(rel, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, p := range b.opts.Exclude {
		p = strings.TrimSuffix(p, "/")
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// kept reports whether a destination path survives the sweep.
func (b *Builder) kept(rel string) bool {
	return b.keep.Match(rel) || b.conv.KeepList().Match(rel)
}

// sweep removes destination files not produced by this build, then
// directories left empty. Kept paths stay.
func (b *Builder) sweep(produced map[string]struct{}) ([]string, error) {
	var removed, dirs []string

	err := filepath.WalkDir(b.opts.Destination, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == b.opts.Destination {
			return nil
		}
		if p == b.opts.Source {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(b.opts.Destination, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !b.kept(rel) {
				dirs = append(dirs, p)
			}
			return nil
		}
		if _, ok := produced[rel]; ok || b.kept(rel) {
			return nil
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("removing %s: %w", rel, err)
		}
		b.logger.Debug(topic, "removed %s", rel)
		removed = append(removed, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sweeping destination: %w", err)
	}

	// Deepest first so parents empty out before they are tried.
	for i := len(dirs) - 1; i >= 0; i-- {
		children, err := os.ReadDir(dirs[i])
		if err != nil || len(children) > 0 {
			continue
		}
		if err := os.Remove(dirs[i]); err == nil {
			rel, _ := filepath.Rel(b.opts.Destination, dirs[i])
			removed = append(removed, filepath.ToSlash(rel))
		}
	}

	sort.Strings(removed)
	return removed, nil
}

// IsDeck reports whether name is a slide document. The extension is
// matched case-insensitively.
func IsDeck(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".rab")
}

// PagePath maps a slide document path to its page path.
func PagePath(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
}
