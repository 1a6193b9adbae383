package rabbit

// Notes:
// - Tests slide HTML generation, decorations, cross-references and Save ordering
// - fakeRasterizer records pages and writes a placeholder file instead of
//   launching a browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type fakeRasterizer struct {
	mu    sync.Mutex
	pages []SlidePage
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, page SlidePage) error {
	f.mu.Lock()
	f.pages = append(f.pages, page)
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(page.Path, []byte("\x89PNG fake"), 0o600)
}

type recordingSaver struct {
	events []string
	err    error
}

func (r *recordingSaver) BeginSave(context.Context, *Generator) error {
	r.events = append(r.events, "begin")
	return nil
}

func (r *recordingSaver) SaveSlide(_ context.Context, g *Generator, s *Slide) error {
	if _, err := os.Stat(g.ImageFilename(s.Index)); err == nil {
		r.events = append(r.events, "slide+image")
	} else {
		r.events = append(r.events, "slide")
	}
	return r.err
}

func (r *recordingSaver) OutputHTML(context.Context, *Generator) error {
	r.events = append(r.events, "output")
	return nil
}

func newTestGenerator(t *testing.T, input string, opts GeneratorOptions) *Generator {
	t.Helper()
	deck := NewParser().Parse(NewStringSource(input))
	return NewGenerator(deck, opts)
}

// ---------------------------------------------------------------------------
// TestGenerator_SlideHTML - Rendered markup
// ---------------------------------------------------------------------------

func TestGenerator_SlideHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		index    int
		contains []string
		excludes []string
	}{
		{
			name:     "title slide class",
			input:    "# Deck\n\nAuthor\n",
			index:    0,
			contains: []string{"<div class='slide title-slide'>", "<h1><span style='font-size: 2.4em'>Deck</span></h1>", "<p>Author</p>"},
		},
		{
			name:     "plain slide class",
			input:    "# Deck\n\n# Second\n",
			index:    1,
			contains: []string{"<div class='slide'>", "Second"},
			excludes: []string{"title-slide"},
		},
		{
			name:     "emphasis decorations",
			input:    "# Deck\n\n*soft* and **strong** and ~~gone~~\n",
			index:    0,
			contains: []string{"<em class='emphasis'>soft</em>", "<strong class='emphasis'>strong</strong>", "<del>gone</del>"},
		},
		{
			name:     "code span escaped",
			input:    "# Deck\n\n`a < b`\n",
			index:    0,
			contains: []string{"<code class='code'>a &lt; b</code>"},
		},
		{
			name:     "dangerous link dropped",
			input:    "# Deck\n\n[x](javascript:alert(1))\n",
			index:    0,
			contains: []string{"<a href=''>x</a>"},
		},
		{
			name:     "empty body has no body span",
			input:    "# Deck\n",
			index:    0,
			excludes: []string{"font-size: 1.4em"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newTestGenerator(t, tt.input, GeneratorOptions{})
			got, err := g.SlideHTML(g.Deck().Slides[tt.index])
			if err != nil {
				t.Fatalf("SlideHTML() unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("SlideHTML() missing %q in:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("SlideHTML() should not contain %q in:\n%s", bad, got)
				}
			}
		})
	}
}

func TestGenerator_Labels(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, "# Deck\n\nsee [next](Second) or [web](https://example.com)\n\n# Second\n", GeneratorOptions{})
	g.SetLabel("Second", "slide-1-abc")

	got, err := g.SlideHTML(g.Deck().Slides[0])
	if err != nil {
		t.Fatalf("SlideHTML() unexpected error: %v", err)
	}
	if !strings.Contains(got, "<a href='#slide-1-abc'>next</a>") {
		t.Errorf("labelled link not rewritten:\n%s", got)
	}
	if !strings.Contains(got, "<a href='https://example.com'>web</a>") {
		t.Errorf("external link changed:\n%s", got)
	}
	if id, ok := g.Label("Second"); !ok || id != "slide-1-abc" {
		t.Errorf("Label(Second) = %q, %v", id, ok)
	}
}

func TestGenerator_ImageFilename(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, "# A\n", GeneratorOptions{BaseName: "/out/rabbit-image/d41d/slide"})
	tests := map[int]string{
		0:    "/out/rabbit-image/d41d/slide000.png",
		7:    "/out/rabbit-image/d41d/slide007.png",
		42:   "/out/rabbit-image/d41d/slide042.png",
		1234: "/out/rabbit-image/d41d/slide1234.png",
	}
	for index, want := range tests {
		if got := g.ImageFilename(index); got != want {
			t.Errorf("ImageFilename(%d) = %q, want %q", index, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGenerator_Save - Images and saver ordering
// ---------------------------------------------------------------------------

func TestGenerator_Save(t *testing.T) {
	t.Parallel()

	t.Run("images exist before each slide is saved", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		raster := &fakeRasterizer{}
		saver := &recordingSaver{}
		g := newTestGenerator(t, "# A\n\n# B\n\n# C\n", GeneratorOptions{
			Width: 320, Height: 240,
			BaseName:   filepath.Join(dir, "slide"),
			SaveImages: true,
			Rasterizer: raster,
		})

		if err := g.Save(context.Background(), saver); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}

		want := []string{"begin", "slide+image", "slide+image", "slide+image", "output"}
		if strings.Join(saver.events, ",") != strings.Join(want, ",") {
			t.Errorf("events = %v, want %v", saver.events, want)
		}
		if len(raster.pages) != 3 {
			t.Fatalf("rasterized %d pages, want 3", len(raster.pages))
		}
		for i, p := range raster.pages {
			if p.Index != i || p.Width != 320 || p.Height != 240 {
				t.Errorf("page %d = {Index:%d Width:%d Height:%d}", i, p.Index, p.Width, p.Height)
			}
			if !strings.Contains(p.HTML, "width: 320px") {
				t.Errorf("page %d HTML lacks viewport size", i)
			}
		}
	})

	t.Run("no rasterizer", func(t *testing.T) {
		t.Parallel()

		g := newTestGenerator(t, "# A\n", GeneratorOptions{SaveImages: true, BaseName: filepath.Join(t.TempDir(), "s")})
		if err := g.Save(context.Background(), nil); !errors.Is(err, ErrNoRasterizer) {
			t.Errorf("Save() error = %v, want %v", err, ErrNoRasterizer)
		}
	})

	t.Run("rasterizer failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		g := newTestGenerator(t, "# A\n", GeneratorOptions{
			SaveImages: true,
			BaseName:   filepath.Join(t.TempDir(), "s"),
			Rasterizer: &fakeRasterizer{err: boom},
		})
		err := g.Save(context.Background(), nil)
		if !errors.Is(err, ErrSaveImage) || !errors.Is(err, boom) {
			t.Errorf("Save() error = %v, want %v wrapping %v", err, ErrSaveImage, boom)
		}
	})

	t.Run("saver failure stops the run", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		saver := &recordingSaver{err: boom}
		g := newTestGenerator(t, "# A\n\n# B\n", GeneratorOptions{})
		if err := g.Save(context.Background(), saver); !errors.Is(err, boom) {
			t.Errorf("Save() error = %v, want %v", err, boom)
		}
		if len(saver.events) != 2 {
			t.Errorf("events = %v, want begin and one slide", saver.events)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		g := newTestGenerator(t, "# A\n", GeneratorOptions{})
		if err := g.Save(ctx, &recordingSaver{}); !errors.Is(err, context.Canceled) {
			t.Errorf("Save() error = %v, want %v", err, context.Canceled)
		}
	})
}

func TestFileSaver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := newTestGenerator(t, "# Deck\n\n# Two\n", GeneratorOptions{BaseName: filepath.Join(dir, "slide")})
	if err := g.Save(context.Background(), &FileSaver{}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	for _, name := range []string{"slide000.html", "slide001.html", "slideindex.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	index, err := os.ReadFile(filepath.Join(dir, "slideindex.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `<a href="slide001.html">Two</a>`) {
		t.Errorf("index lacks link to second slide:\n%s", index)
	}
}
