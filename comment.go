package rab2html

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/alnah/go-rab2html/internal/rabbit"
)

// commentKey is the slide attachment holding commentary blocks.
const commentKey = "comment"

// commentHook claims a level-2 "comment" heading inside a slide. The blocks
// below it become commentary of that slide: shown next to the slide in the
// page, never on the slide image.
//
//	# Slide title
//
//	Slide body.
//
//	## Comment
//
//	Speaker notes.
type commentHook struct{}

func (commentHook) ApplyHeading(deck *rabbit.Deck, heading *ast.Heading, title string) rabbit.NoteSetter {
	if heading.Level != 2 || !strings.EqualFold(title, commentKey) {
		return nil
	}
	slide := deck.Current()
	if slide == nil {
		return nil
	}
	return commentSetter{slide: slide}
}

type commentSetter struct {
	slide *rabbit.Slide
}

func (c commentSetter) Apply(n ast.Node) {
	c.slide.Attach(commentKey, n)
}

var _ rabbit.HeadingHook = commentHook{}
