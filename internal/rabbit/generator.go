package rabbit

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// Saver persists slides once their images exist.
// BeginSave runs before the first slide, SaveSlide once per slide in index
// order, OutputHTML after the last one.
type Saver interface {
	BeginSave(ctx context.Context, g *Generator) error
	SaveSlide(ctx context.Context, g *Generator, slide *Slide) error
	OutputHTML(ctx context.Context, g *Generator) error
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	Width      int
	Height     int
	BaseName   string // image path prefix; slide N is written to BaseName + "NNN.png"
	SaveImages bool
	Rasterizer Rasterizer
	Logger     Logger
}

// Generator renders a deck to HTML and drives image generation.
type Generator struct {
	deck   *Deck
	opts   GeneratorOptions
	md     goldmark.Markdown
	labels map[string]string
	page   *template.Template
}

// NewGenerator creates a Generator for deck.
func NewGenerator(deck *Deck, opts GeneratorOptions) *Generator {
	if opts.Logger == nil {
		opts.Logger = LoggerFunc(func(Severity, string, string) {})
	}
	g := &Generator{
		deck:   deck,
		opts:   opts,
		labels: make(map[string]string),
		page:   slidePageTemplate,
	}
	g.md = newMarkdown(util.Prioritized(&decorationRenderer{labels: g}, decorationPriority))
	return g
}

// Deck returns the deck being generated.
func (g *Generator) Deck() *Deck { return g.deck }

// Source returns the document bytes exactly as they were given.
func (g *Generator) Source() []byte { return g.deck.Source.Raw }

// Logger returns the logger the generator reports to.
func (g *Generator) Logger() Logger { return g.opts.Logger }

// Text returns the plain text below n.
func (g *Generator) Text(n ast.Node) string {
	return plainText(n, g.deck.Source.Text)
}

// ImageFilename returns the image path of slide index.
func (g *Generator) ImageFilename(index int) string {
	return fmt.Sprintf("%s%03d.png", g.opts.BaseName, index)
}

// SetLabel registers id as the anchor for references to key.
func (g *Generator) SetLabel(key, id string) {
	g.labels[key] = id
}

// Label implements LabelResolver.
func (g *Generator) Label(key string) (string, bool) {
	id, ok := g.labels[key]
	return id, ok
}

// RenderNode renders one block or inline node with decorations and references.
func (g *Generator) RenderNode(n ast.Node) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Renderer().Render(&buf, g.deck.Source.Text, n); err != nil {
		return "", fmt.Errorf("rendering %s: %w", n.Kind(), err)
	}
	return buf.String(), nil
}

// SlideHTML renders the slide title and body. Title and body are wrapped in
// font <span> elements carrying the slide typography.
func (g *Generator) SlideHTML(s *Slide) (string, error) {
	var b strings.Builder

	class := "slide"
	if s.IsTitle() {
		class += " title-slide"
	}
	b.WriteString("<div class='" + class + "'>")

	b.WriteString("<h1><span style='font-size: 2.4em'>")
	if s.Heading != nil {
		for c := s.Heading.FirstChild(); c != nil; c = c.NextSibling() {
			out, err := g.RenderNode(c)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		}
	}
	b.WriteString("</span></h1>")

	if len(s.Elements) > 0 {
		b.WriteString("<span style='font-size: 1.4em'>")
		for _, n := range s.Elements {
			out, err := g.RenderNode(n)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		}
		b.WriteString("</span>")
	}

	b.WriteString("</div>")
	return b.String(), nil
}

// Save generates every slide: the image first (when enabled), then the
// saver. A nil saver only writes images. The context is checked between slides.
func (g *Generator) Save(ctx context.Context, saver Saver) error {
	if saver != nil {
		if err := saver.BeginSave(ctx, g); err != nil {
			return err
		}
	}

	for _, s := range g.deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.opts.SaveImages {
			if err := g.saveImage(ctx, s); err != nil {
				return err
			}
		}
		if saver != nil {
			if err := saver.SaveSlide(ctx, g, s); err != nil {
				return err
			}
		}
		logf(g.opts.Logger, SeverityDebug, "generated slide %d: %s", s.Index, s.Title)
	}

	if saver != nil {
		return saver.OutputHTML(ctx, g)
	}
	return nil
}

func (g *Generator) saveImage(ctx context.Context, s *Slide) error {
	if g.opts.Rasterizer == nil {
		return ErrNoRasterizer
	}

	body, err := g.SlideHTML(s)
	if err != nil {
		return err
	}
	body, err = rewriteRelativePaths(body, g.deck.Source.BaseDir)
	if err != nil {
		return fmt.Errorf("%w: slide %d: %v", ErrSaveImage, s.Index, err)
	}

	var page bytes.Buffer
	err = g.page.Execute(&page, slidePageData{
		Width:    g.opts.Width,
		Height:   g.opts.Height,
		FontSize: max(g.opts.Height/24, 8),
		CSS:      template.CSS(highlightCSS()), // #nosec G203 -- generated by chroma
		Body:     template.HTML(body),          // #nosec G203 -- produced by goldmark without raw HTML
	})
	if err != nil {
		return fmt.Errorf("%w: slide %d: %v", ErrSaveImage, s.Index, err)
	}

	err = g.opts.Rasterizer.Rasterize(ctx, SlidePage{
		Index:  s.Index,
		HTML:   page.String(),
		Width:  g.opts.Width,
		Height: g.opts.Height,
		Path:   g.ImageFilename(s.Index),
	})
	if err != nil {
		return fmt.Errorf("%w: slide %d: %w", ErrSaveImage, s.Index, err)
	}
	return nil
}

type slidePageData struct {
	Width    int
	Height   int
	FontSize int
	CSS      template.CSS
	Body     template.HTML
}

var slidePageTemplate = template.Must(template.New("slide").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
html, body { margin: 0; padding: 0; width: {{.Width}}px; height: {{.Height}}px; overflow: hidden; background: #fff; }
.slide { box-sizing: border-box; width: 100%; height: 100%; padding: 4% 6%; font-family: sans-serif; font-size: {{.FontSize}}px; }
.slide h1 { margin: 0 0 0.5em 0; font-size: 1em; }
.slide > span { display: block; }
.title-slide { display: flex; flex-direction: column; justify-content: center; text-align: center; }
.emphasis { color: #c00; }
{{.CSS}}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))
