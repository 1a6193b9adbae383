package rab2html

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark/ast"
	xhtml "golang.org/x/net/html"

	"github.com/alnah/go-rab2html/internal/rabbit"
)

// Digest returns the content digest of a document: the md5 hex of its text
// without surrounding whitespace.
func Digest(text string) string {
	return digestBytes([]byte(strings.TrimSpace(text)))
}

func digestBytes(b []byte) string {
	sum := md5.Sum(b) // #nosec G401 -- content fingerprint, not a security boundary
	return hex.EncodeToString(sum[:])
}

// capturedSlide is what one SaveSlide call leaves behind.
type capturedSlide struct {
	Index int
	Title string
	Image string // image path as written by the renderer
}

// captureScope collects the output of one renderer run.
type captureScope struct {
	mu     sync.Mutex
	images map[int]string
	titles map[int]string
	text   strings.Builder
}

func newCaptureScope() *captureScope {
	return &captureScope{
		images: make(map[int]string),
		titles: make(map[int]string),
	}
}

func (s *captureScope) record(index int, image, title, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[index] = image
	s.titles[index] = title
	s.text.WriteString(fragment)
}

// slides returns the captured slides by ascending index.
func (s *captureScope) slides() []capturedSlide {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]capturedSlide, 0, len(s.images))
	for i, img := range s.images {
		out = append(out, capturedSlide{Index: i, Title: s.titles[i], Image: img})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

func (s *captureScope) transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

type captureScopeKey struct{}

func withCaptureScope(ctx context.Context, s *captureScope) context.Context {
	return context.WithValue(ctx, captureScopeKey{}, s)
}

func captureScopeFrom(ctx context.Context) (*captureScope, bool) {
	s, ok := ctx.Value(captureScopeKey{}).(*captureScope)
	return s, ok
}

// captureSaver records slides in the capture scope of the run instead of
// writing HTML files. Images are written by the generator before SaveSlide.
type captureSaver struct {
	scope  *captureScope
	digest string
}

func (c *captureSaver) BeginSave(ctx context.Context, g *rabbit.Generator) error {
	scope, ok := captureScopeFrom(ctx)
	if !ok {
		return ErrNoCaptureScope
	}
	c.scope = scope
	c.digest = digestBytes(g.Source())

	for _, s := range g.Deck().Slides {
		id := slideLabel(s.Index, c.digest)
		g.SetLabel(strconv.Itoa(s.Index), id)
		if s.Title != "" {
			g.SetLabel(s.Title, id)
		}
		nodes := append(append([]ast.Node(nil), s.Elements...), s.Attached(commentKey)...)
		for _, n := range nodes {
			_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := node.(*ast.Heading); ok && entering {
					if text := g.Text(h); text != "" {
						g.SetLabel(text, id)
					}
					return ast.WalkSkipChildren, nil
				}
				return ast.WalkContinue, nil
			})
		}
	}
	return nil
}

func (c *captureSaver) SaveSlide(_ context.Context, g *rabbit.Generator, s *rabbit.Slide) error {
	if c.scope == nil {
		return ErrNoCaptureScope
	}

	body, err := g.SlideHTML(s)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<div class='slide-and-comment' id='%s'>", html.EscapeString(slideLabel(s.Index, c.digest)))
	b.WriteString(stripSpans(body))

	if comments := s.Attached(commentKey); len(comments) > 0 {
		class := "slide-comment"
		if s.IsTitle() {
			class += " title-slide-comment"
		}
		b.WriteString("<div class='" + class + "'>")
		for _, n := range comments {
			out, err := g.RenderNode(n)
			if err != nil {
				return err
			}
			b.WriteString(out)
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div>")

	c.scope.record(s.Index, g.ImageFilename(s.Index), s.Title, b.String())
	return nil
}

// OutputHTML does nothing: the combined page is built from the captured slides.
func (c *captureSaver) OutputHTML(context.Context, *rabbit.Generator) error {
	return nil
}

func slideLabel(index int, digest string) string {
	return "slide-" + strconv.Itoa(index) + "-" + digest
}

// stripSpans removes every <span> start and end tag from fragment, keeping
// their content and all other markup byte for byte.
func stripSpans(fragment string) string {
	z := xhtml.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			return b.String()
		}
		raw := string(z.Raw())
		switch tt {
		case xhtml.StartTagToken, xhtml.EndTagToken, xhtml.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "span" {
				continue
			}
		}
		b.WriteString(raw)
	}
}

var _ rabbit.Saver = (*captureSaver)(nil)
