package rabbit

import (
	"html"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// decorationPriority beats the default HTML renderer (1000) and the
// highlighting renderer (200).
const decorationPriority = 100

// LabelResolver maps a cross-reference target to an element id.
type LabelResolver interface {
	Label(key string) (string, bool)
}

// decorationRenderer keeps inline markup visible in generated HTML with
// class names, and turns links into references to labelled slides.
type decorationRenderer struct {
	labels LabelResolver
}

func (r *decorationRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindEmphasis, r.renderEmphasis)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(extast.KindStrikethrough, r.renderStrikethrough)
	reg.Register(ast.KindLink, r.renderLink)
}

func (r *decorationRenderer) renderEmphasis(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	tag := "em"
	if node.(*ast.Emphasis).Level >= 2 {
		tag = "strong"
	}
	if entering {
		_, _ = w.WriteString("<" + tag + " class='emphasis'>")
	} else {
		_, _ = w.WriteString("</" + tag + ">")
	}
	return ast.WalkContinue, nil
}

func (r *decorationRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<code class='code'>")
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			_, _ = w.Write(util.EscapeHTML(t.Segment.Value(source)))
		case *ast.String:
			_, _ = w.Write(util.EscapeHTML(t.Value))
		}
	}
	return ast.WalkSkipChildren, nil
}

func (r *decorationRenderer) renderStrikethrough(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<del>")
	} else {
		_, _ = w.WriteString("</del>")
	}
	return ast.WalkContinue, nil
}

func (r *decorationRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Link)
	href := ""
	if !gmhtml.IsDangerousURL(n.Destination) {
		href = string(n.Destination)
	}
	if r.labels != nil && href != "" {
		if id, ok := r.labels.Label(href); ok {
			href = "#" + id
		}
	}
	_, _ = w.WriteString("<a href='" + html.EscapeString(href) + "'>")
	return ast.WalkContinue, nil
}
