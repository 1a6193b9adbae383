// Package mcp provides a Model Context Protocol server for rab2html.
// It exposes deck conversion and container extraction as MCP tools.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	rab2html "github.com/alnah/go-rab2html"
)

// DeckConverter converts one slide document into a container.
type DeckConverter interface {
	Convert(ctx context.Context, src rab2html.Source, cfg rab2html.RenderConfig) (string, error)
}

// Compile-time interface implementation check.
var _ DeckConverter = (*rab2html.Converter)(nil)

// NewServer creates an MCP server with all rab2html tools registered.
// Conversions write slide images below the caller's destination directory.
func NewServer(version string, conv DeckConverter) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "rab2html",
		Version: version,
	}, nil)
	registerTools(server, conv)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for pure text transforms.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for tools writing slide images.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		IdempotentHint:  true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all rab2html tools to the server.
func registerTools(server *mcp.Server, conv DeckConverter) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_deck",
		Description: "Render Rabbit slide markup into slide images under destination and return the rabbit-content container with its title, first image URL and digest.",
		Annotations: writeAnnotations(),
	}, handleConvertDeck(conv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_slide",
		Description: "Return the slide HTML of the first rabbit-content container in text, or text unchanged when it holds none.",
		Annotations: readOnlyAnnotations(),
	}, handleExtractSlide())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "title_slide",
		Description: "Return a title-slide image link to url built from the first rabbit-content container in text, optionally followed by a text link.",
		Annotations: readOnlyAnnotations(),
	}, handleTitleSlide())
}
