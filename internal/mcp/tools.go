package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	rab2html "github.com/alnah/go-rab2html"
)

// --- Convert tool ---

// ConvertInput is the input for the convert_deck tool.
type ConvertInput struct {
	Text        string `json:"text"                jsonschema:"Rabbit slide markup"`
	Destination string `json:"destination"         jsonschema:"site directory receiving rabbit-image/"`
	Dir         string `json:"dir,omitempty"       jsonschema:"base directory for relative image paths"`
	Encoding    string `json:"encoding,omitempty"  jsonschema:"character encoding of text (default UTF-8)"`
	Width       int    `json:"width,omitempty"     jsonschema:"slide image width in pixels (default 640)"`
	Height      int    `json:"height,omitempty"    jsonschema:"slide image height in pixels (default 480)"`
	Template    string `json:"template,omitempty"  jsonschema:"template name or path (default bootstrap_carousel)"`
}

// ConvertOutput is the output for the convert_deck tool.
type ConvertOutput struct {
	Container string `json:"container"       jsonschema:"rabbit-content container text"`
	Digest    string `json:"digest"          jsonschema:"md5 digest of the trimmed markup"`
	Title     string `json:"title"           jsonschema:"title of the first slide"`
	Image     string `json:"image,omitempty" jsonschema:"site URL of the first slide image"`
}

func handleConvertDeck(conv DeckConverter) mcp.ToolHandlerFor[ConvertInput, ConvertOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertOutput, error) {
		if input.Destination == "" {
			return nil, ConvertOutput{}, errors.New("destination is required")
		}

		container, err := conv.Convert(ctx, rab2html.Source{
			Text:     input.Text,
			Encoding: input.Encoding,
			Dir:      input.Dir,
		}, rab2html.RenderConfig{
			OutputBase: input.Destination,
			Width:      input.Width,
			Height:     input.Height,
			Template:   input.Template,
		})
		if err != nil {
			return nil, ConvertOutput{}, fmt.Errorf("converting deck: %w", err)
		}

		result, err := rab2html.Decode(container)
		if err != nil {
			return nil, ConvertOutput{}, fmt.Errorf("decoding container: %w", err)
		}

		return nil, ConvertOutput{
			Container: container,
			Digest:    result.Digest,
			Title:     result.Title,
			Image:     result.Image,
		}, nil
	}
}

// --- Extract tool ---

// ExtractInput is the input for the extract_slide tool.
type ExtractInput struct {
	Text string `json:"text" jsonschema:"text holding a rabbit-content container"`
}

// HTMLOutput is the output of the extraction tools.
type HTMLOutput struct {
	HTML string `json:"html" jsonschema:"extracted HTML"`
}

func handleExtractSlide() mcp.ToolHandlerFor[ExtractInput, HTMLOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ExtractInput) (*mcp.CallToolResult, HTMLOutput, error) {
		return nil, HTMLOutput{HTML: rab2html.SlideOnly(input.Text)}, nil
	}
}

// --- Title tool ---

// TitleInput is the input for the title_slide tool.
type TitleInput struct {
	Text         string `json:"text"                     jsonschema:"text holding a rabbit-content container"`
	URL          string `json:"url"                      jsonschema:"link target, usually the deck page URL"`
	WithTextLink bool   `json:"with_text_link,omitempty" jsonschema:"append a text link carrying the title"`
}

func handleTitleSlide() mcp.ToolHandlerFor[TitleInput, HTMLOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input TitleInput) (*mcp.CallToolResult, HTMLOutput, error) {
		return nil, HTMLOutput{HTML: rab2html.TitleSlideLink(input.Text, input.URL, input.WithTextLink)}, nil
	}
}
