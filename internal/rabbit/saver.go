package rabbit

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSaver writes one HTML page per slide next to the slide images, plus an
// index page linking them. It is the default Saver of --output-html.
type FileSaver struct {
	mu    sync.Mutex
	pages []savedPage
}

type savedPage struct {
	Index int
	Title string
	Href  string
	Image string
	Body  template.HTML
}

// BeginSave resets the saver and creates the output directory.
func (f *FileSaver) BeginSave(_ context.Context, g *Generator) error {
	f.mu.Lock()
	f.pages = nil
	f.mu.Unlock()

	dir := filepath.Dir(g.opts.BaseName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrSaveHTML, dir, err)
	}
	return nil
}

// SaveSlide writes the page of one slide.
func (f *FileSaver) SaveSlide(_ context.Context, g *Generator, s *Slide) error {
	body, err := g.SlideHTML(s)
	if err != nil {
		return err
	}

	p := savedPage{
		Index: s.Index,
		Title: s.Title,
		Href:  filepath.Base(f.pagePath(g, s.Index)),
		Body:  template.HTML(body), // #nosec G203 -- produced by the slide renderer
	}
	if g.opts.SaveImages {
		p.Image = filepath.Base(g.ImageFilename(s.Index))
	}

	if err := f.write(f.pagePath(g, s.Index), slideFileTemplate, p); err != nil {
		return err
	}

	f.mu.Lock()
	f.pages = append(f.pages, p)
	f.mu.Unlock()
	return nil
}

// OutputHTML writes the index page.
func (f *FileSaver) OutputHTML(_ context.Context, g *Generator) error {
	f.mu.Lock()
	pages := append([]savedPage(nil), f.pages...)
	f.mu.Unlock()

	return f.write(g.opts.BaseName+"index.html", indexFileTemplate, pages)
}

func (f *FileSaver) pagePath(g *Generator, index int) string {
	return strings.TrimSuffix(g.ImageFilename(index), ".png") + ".html"
}

func (f *FileSaver) write(path string, tmpl *template.Template, data any) error {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveHTML, path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveHTML, err)
	}
	return nil
}

var slideFileTemplate = template.Must(template.New("slide-file").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{if .Image}}<p><img src="{{.Image}}" alt="{{.Title}}"></p>
{{end}}{{.Body}}
</body>
</html>
`))

var indexFileTemplate = template.Must(template.New("index-file").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{if .}}{{(index . 0).Title}}{{end}}</title></head>
<body>
<ol start="0">
{{range .}}<li><a href="{{.Href}}">{{.Title}}</a></li>
{{end}}</ol>
</body>
</html>
`))
