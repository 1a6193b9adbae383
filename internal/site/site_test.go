package site

// Notes:
// - Build: the converter is a fake that writes one image per deck below the
//   output base and registers its keep entries the way the real converter
//   does, so the sweep sees the same keep-list shape without a browser.
// - Concurrency limits of errgroup are not asserted; we test the outcome of
//   parallel builds, not scheduling.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	rab2html "github.com/alnah/go-rab2html"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type fakeConverter struct {
	mu    sync.Mutex
	keep  *rab2html.KeepList
	calls []rab2html.Source
	err   error
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{keep: rab2html.NewKeepList()}
}

func (f *fakeConverter) Convert(_ context.Context, src rab2html.Source, cfg rab2html.RenderConfig) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, src)
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return "", err
	}

	digest := rab2html.Digest(src.Text)
	image := filepath.Join(cfg.OutputBase, rab2html.ImageDirName, digest, "slide000.png")
	if err := os.MkdirAll(filepath.Dir(image), 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(image, []byte("png"), 0o600); err != nil {
		return "", err
	}
	f.keep.Add(
		rab2html.ImageDirName+"$",
		rab2html.ImageDirName+"/"+digest+"$",
		rab2html.ImageDirName+"/"+digest+"/slide000.png",
	)
	return "container:" + strings.TrimSpace(src.Text), nil
}

func (f *fakeConverter) KeepList() *rab2html.KeepList {
	return f.keep
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func newTestBuilder(t *testing.T, conv DeckConverter, opts Options) *Builder {
	t.Helper()
	b, err := NewBuilder(conv, opts)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

// ---------------------------------------------------------------------------
// TestNewBuilder - Option validation
// ---------------------------------------------------------------------------

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		opts    Options
		wantErr error
		anyErr  bool
	}{
		{name: "empty source", opts: Options{Destination: dir}, wantErr: ErrEmptySource},
		{name: "empty destination", opts: Options{Source: dir}, wantErr: ErrEmptyDestination},
		{name: "same directories", opts: Options{Source: dir, Destination: dir + "/."}, wantErr: ErrSameDirectories},
		{name: "bad exclude", opts: Options{Source: dir, Destination: filepath.Join(dir, "_site"), Exclude: []string{"["}}, anyErr: true},
		{name: "valid", opts: Options{Source: dir, Destination: filepath.Join(dir, "_site")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBuilder(newFakeConverter(), tt.opts)
			if tt.anyErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.opts.Render.OutputBase != b.opts.Destination {
				t.Errorf("OutputBase = %q, want destination %q", b.opts.Render.OutputBase, b.opts.Destination)
			}
			if !filepath.IsAbs(b.opts.Source) {
				t.Errorf("source %q should be absolute", b.opts.Source)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuild - Conversion and copying
// ---------------------------------------------------------------------------

func TestBuild(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(src, "_site")
	writeTree(t, src, map[string]string{
		"index.rab":         "# Home\n",
		"talks/Second.RAB":  "# Second\n",
		"css/site.css":      "body {}",
		"notes.txt":         "notes",
		".hidden/secret":    "x",
		".env":              "x",
		"drafts/wip.rab":    "# WIP\n",
		"Gemfile":           "x",
		"_site/stale.html":  "old",
		"_site/keep/me.txt": "kept",
	})

	conv := newFakeConverter()
	b := newTestBuilder(t, conv, Options{
		Source:      src,
		Destination: dst,
		Exclude:     []string{"drafts", "Gemfile"},
		KeepFiles:   []string{"keep"},
		Workers:     2,
		Render:      rab2html.RenderConfig{Template: "image_list"},
	})

	report, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	t.Run("converts decks case-insensitively", func(t *testing.T) {
		t.Parallel()

		want := []string{"index.html", "talks/Second.html"}
		if !slices.Equal(report.Converted, want) {
			t.Errorf("Converted = %v, want %v", report.Converted, want)
		}
		if got := readFile(t, filepath.Join(dst, "index.html")); got != "container:# Home" {
			t.Errorf("index.html = %q", got)
		}
	})

	t.Run("copies other files", func(t *testing.T) {
		t.Parallel()

		want := []string{"css/site.css", "notes.txt"}
		if !slices.Equal(report.Copied, want) {
			t.Errorf("Copied = %v, want %v", report.Copied, want)
		}
		if got := readFile(t, filepath.Join(dst, "css", "site.css")); got != "body {}" {
			t.Errorf("site.css = %q", got)
		}
	})

	t.Run("skips hidden and excluded entries", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{".hidden/secret", ".env", "drafts/wip.html", "Gemfile"} {
			if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(name))); !os.IsNotExist(err) {
				t.Errorf("%s should not be in the destination", name)
			}
		}
	})

	t.Run("passes deck directory and render config", func(t *testing.T) {
		t.Parallel()

		conv.mu.Lock()
		defer conv.mu.Unlock()
		if len(conv.calls) != 2 {
			t.Fatalf("converter calls = %d, want 2", len(conv.calls))
		}
		for _, c := range conv.calls {
			if !strings.HasPrefix(c.Dir, src) {
				t.Errorf("Dir = %q, want below %q", c.Dir, src)
			}
		}
	})

	t.Run("sweeps stale files and keeps protected ones", func(t *testing.T) {
		t.Parallel()

		if !slices.Contains(report.Removed, "stale.html") {
			t.Errorf("Removed = %v, want stale.html", report.Removed)
		}
		if _, err := os.Stat(filepath.Join(dst, "stale.html")); !os.IsNotExist(err) {
			t.Error("stale.html should be removed")
		}
		if got := readFile(t, filepath.Join(dst, "keep", "me.txt")); got != "kept" {
			t.Errorf("keep/me.txt = %q", got)
		}
		image := filepath.Join(dst, rab2html.ImageDirName, rab2html.Digest("# Home\n"), "slide000.png")
		if _, err := os.Stat(image); err != nil {
			t.Errorf("slide image should survive the sweep: %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuild_Sweep - Destination cleanup
// ---------------------------------------------------------------------------

func TestBuild_Sweep(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	oldImage := rab2html.ImageDirName + "/" + strings.Repeat("a", 32) + "/slide000.png"
	writeTree(t, src, map[string]string{
		"deck.rab": "# Deck\n",
	})
	writeTree(t, dst, map[string]string{
		oldImage:            "old",
		"old/dir/page.html": "old",
		"keep.txt":          "kept",
	})

	conv := newFakeConverter()
	b := newTestBuilder(t, conv, Options{
		Source:      src,
		Destination: dst,
		KeepFiles:   []string{"keep.txt"},
	})

	report, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{
		"old",
		"old/dir",
		"old/dir/page.html",
		oldImage,
		filepath.ToSlash(filepath.Dir(oldImage)),
	}
	slices.Sort(want)
	if !slices.Equal(report.Removed, want) {
		t.Errorf("Removed = %v, want %v", report.Removed, want)
	}

	if _, err := os.Stat(filepath.Join(dst, rab2html.ImageDirName)); err != nil {
		t.Errorf("image directory should be kept: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "keep.txt")); err != nil {
		t.Errorf("keep.txt should be kept: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "deck.html")); err != nil {
		t.Errorf("deck.html should be written: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Errors - Failure propagation
// ---------------------------------------------------------------------------

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	t.Run("converter failure", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeTree(t, src, map[string]string{"deck.rab": "# Deck\n"})

		conv := newFakeConverter()
		conv.err = rab2html.ErrRender
		b := newTestBuilder(t, conv, Options{Source: src, Destination: t.TempDir()})

		_, err := b.Build(context.Background())
		if !errors.Is(err, rab2html.ErrRender) {
			t.Fatalf("error = %v, want ErrRender", err)
		}
		if !strings.Contains(err.Error(), "deck.rab") {
			t.Errorf("error %q should name the document", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing")
		b := newTestBuilder(t, newFakeConverter(), Options{Source: missing, Destination: t.TempDir()})

		if _, err := b.Build(context.Background()); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("error = %v, want not exist", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		writeTree(t, src, map[string]string{"a.rab": "# A\n", "b.txt": "b"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		b := newTestBuilder(t, newFakeConverter(), Options{Source: src, Destination: t.TempDir()})
		if _, err := b.Build(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsDeck / TestPagePath - Path helpers
// ---------------------------------------------------------------------------

func TestIsDeck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"slides.rab", true},
		{"slides.RAB", true},
		{"dir/slides.Rab", true},
		{"slides.rabbit", false},
		{"rab", false},
		{"slides.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsDeck(tt.name); got != tt.want {
				t.Errorf("IsDeck(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestPagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"slides.rab", "slides.html"},
		{"talks/2024/Intro.RAB", "talks/2024/Intro.html"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := PagePath(tt.in); got != tt.want {
				t.Errorf("PagePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
