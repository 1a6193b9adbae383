package rabbit

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// NoteSetter receives the blocks that follow a heading claimed by a HeadingHook.
type NoteSetter interface {
	Apply(n ast.Node)
}

// HeadingHook lets an extension claim a heading before the default rules run.
// Returning a non-nil NoteSetter claims the heading: the heading itself is
// dropped and every following block goes to the setter until a heading of
// the same or a lower level appears. Returning nil leaves the heading alone.
type HeadingHook interface {
	ApplyHeading(deck *Deck, heading *ast.Heading, title string) NoteSetter
}

// HeadingHookFunc adapts a function to HeadingHook.
type HeadingHookFunc func(deck *Deck, heading *ast.Heading, title string) NoteSetter

// ApplyHeading calls f.
func (f HeadingHookFunc) ApplyHeading(deck *Deck, heading *ast.Heading, title string) NoteSetter {
	return f(deck, heading, title)
}

// Parser splits Markdown into slides.
type Parser struct {
	md    goldmark.Markdown
	hooks []HeadingHook
}

// NewParser creates a Parser. Hooks are consulted in order; the first one
// returning a setter wins.
func NewParser(hooks ...HeadingHook) *Parser {
	return &Parser{md: newMarkdown(), hooks: hooks}
}

// Parse builds a Deck from src. A document without a level-1 heading yields
// an empty deck.
func (p *Parser) Parse(src *Source) *Deck {
	doc := p.md.Parser().Parse(text.NewReader(src.Text))
	deck := &Deck{Source: src}

	var (
		setter      NoteSetter
		setterLevel int
	)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			if setter != nil && h.Level <= setterLevel {
				setter = nil
			}
			if setter == nil {
				title := plainText(h, src.Text)
				if ns := p.applyHooks(deck, h, title); ns != nil {
					setter, setterLevel = ns, h.Level
					continue
				}
				if h.Level == 1 {
					deck.addSlide(h, title)
					continue
				}
			}
		}

		if setter != nil {
			setter.Apply(n)
			continue
		}
		cur := deck.Current()
		if cur == nil {
			deck.Orphans++
			continue
		}
		cur.Apply(n)
	}
	return deck
}

func (p *Parser) applyHooks(deck *Deck, h *ast.Heading, title string) NoteSetter {
	for _, hook := range p.hooks {
		if ns := hook.ApplyHeading(deck, h, title); ns != nil {
			return ns
		}
	}
	return nil
}
