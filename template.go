package rab2html

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rab2html/internal/assets"
	"github.com/alnah/go-rab2html/internal/fileutil"
)

// SlideTemplate lays out a rendered deck from its slide images.
type SlideTemplate interface {
	Render(digest string, images []SlideImage) (string, error)
}

// SlideTemplateFunc adapts a function to SlideTemplate.
type SlideTemplateFunc func(digest string, images []SlideImage) (string, error)

// Render calls f.
func (f SlideTemplateFunc) Render(digest string, images []SlideImage) (string, error) {
	return f(digest, images)
}

// templateData is the dot of slide templates.
type templateData struct {
	Digest string
	Images []SlideImage
}

// htmlSlideTemplate is a SlideTemplate backed by html/template.
type htmlSlideTemplate struct {
	t *template.Template
}

// ParseSlideTemplate parses an html/template source. The template sees
// .Digest and .Images (a list of SlideImage).
func ParseSlideTemplate(name, src string) (SlideTemplate, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, name, err)
	}
	return htmlSlideTemplate{t: t}, nil
}

func (h htmlSlideTemplate) Render(digest string, images []SlideImage) (string, error) {
	var b strings.Builder
	if err := h.t.Execute(&b, templateData{Digest: digest, Images: images}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return b.String(), nil
}

// loadTemplate returns the parsed template for a name or file path.
// Parsed templates are kept for the life of the converter.
func (c *Converter) loadTemplate(name string) (SlideTemplate, error) {
	c.tmplMu.Lock()
	defer c.tmplMu.Unlock()

	if t, ok := c.templates[name]; ok {
		return t, nil
	}

	src, err := c.readTemplate(name)
	if err != nil {
		return nil, err
	}
	t, err := ParseSlideTemplate(name, src)
	if err != nil {
		return nil, err
	}
	c.templates[name] = t
	return t, nil
}

func (c *Converter) readTemplate(name string) (string, error) {
	if fileutil.IsFilePath(name) {
		content, err := os.ReadFile(filepath.Clean(name)) // #nosec G304 -- user-provided template path
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
			}
			return "", fmt.Errorf("reading template %q: %w", name, err)
		}
		return string(content), nil
	}

	// A bare name may still carry the extension of the bundled file.
	src, err := c.assets.LoadTemplate(strings.TrimSuffix(name, ".html"))
	if err != nil {
		if errors.Is(err, assets.ErrTemplateNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return "", fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
		}
		return "", err
	}
	return src, nil
}
