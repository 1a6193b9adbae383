package rabbit

import (
	"github.com/yuin/goldmark/ast"
)

// Deck is a parsed presentation.
type Deck struct {
	Source *Source
	Slides []*Slide

	// Orphans counts top-level blocks found before the first slide.
	// They belong to no slide and are not rendered.
	Orphans int
}

// Current returns the most recently opened slide, or nil before the first one.
func (d *Deck) Current() *Slide {
	if len(d.Slides) == 0 {
		return nil
	}
	return d.Slides[len(d.Slides)-1]
}

func (d *Deck) addSlide(heading *ast.Heading, title string) *Slide {
	s := &Slide{
		Index:   len(d.Slides),
		Title:   title,
		Heading: heading,
	}
	d.Slides = append(d.Slides, s)
	return s
}

// Slide is one page of the deck.
type Slide struct {
	Index    int
	Title    string
	Heading  *ast.Heading
	Elements []ast.Node // body blocks, in document order

	attached map[string][]ast.Node
}

// IsTitle reports whether s is the title slide.
func (s *Slide) IsTitle() bool {
	return s.Index == 0
}

// Apply adds a block to the slide body. It makes a Slide the default
// NoteSetter while parsing.
func (s *Slide) Apply(n ast.Node) {
	s.Elements = append(s.Elements, n)
}

// Attach stores a block under key, outside the slide body.
func (s *Slide) Attach(key string, n ast.Node) {
	if s.attached == nil {
		s.attached = make(map[string][]ast.Node)
	}
	s.attached[key] = append(s.attached[key], n)
}

// Attached returns the blocks stored under key, in the order they were attached.
func (s *Slide) Attached(key string) []ast.Node {
	return s.attached[key]
}
