package rabbit

import "context"

// SlidePage is one standalone HTML page to rasterize.
type SlidePage struct {
	Index  int
	HTML   string // complete HTML document sized to Width x Height
	Width  int
	Height int
	Path   string // PNG file to write
}

// Rasterizer turns a slide page into an image file.
// Implementations must write page.Path or return an error.
type Rasterizer interface {
	Rasterize(ctx context.Context, page SlidePage) error
}
