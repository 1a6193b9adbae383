package rab2html_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-rab2html"
)

// blankRasterizer writes empty images so the examples run without Chrome.
type blankRasterizer struct{}

func (blankRasterizer) Rasterize(_ context.Context, page rab2html.SlidePage) error {
	return os.WriteFile(page.Path, nil, 0o600)
}

// Example converts a deck and reads the container back.
func Example() {
	out, err := os.MkdirTemp("", "rab2html-example-")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(out)

	conv, err := rab2html.NewConverter(rab2html.WithRasterizer(blankRasterizer{}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	res, err := conv.Result(context.Background(),
		rab2html.Source{Text: "# Hello\n\nWorld\n\n# Next\n\nMore\n"},
		rab2html.RenderConfig{OutputBase: out})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("title:", res.Title)
	fmt.Println("images:", strings.Count(res.SlideHTML, "<img"))
	fmt.Println("size:", res.Width, "x", res.Height)
	// Output:
	// title: Hello
	// images: 2
	// size: 640 x 480
}

// ExampleSlideOnly extracts the slide markup of a page.
func ExampleSlideOnly() {
	page := rab2html.Encode(rab2html.Result{
		Digest:    "0123456789abcdef0123456789abcdef",
		Title:     "Hello",
		SlideHTML: "<div class=\"carousel\"></div>",
	})

	fmt.Println(rab2html.SlideOnly(page))
	fmt.Println(rab2html.SlideOnly("<p>not a deck</p>"))
	// Output:
	// <div class="carousel"></div>
	// <p>not a deck</p>
}

// ExampleTitleSlideWithTextLink links the title slide image to a page.
func ExampleTitleSlideWithTextLink() {
	page := rab2html.Encode(rab2html.Result{
		Digest: "0123456789abcdef0123456789abcdef",
		Title:  "Hello",
		Image:  "/rabbit-image/0123456789abcdef0123456789abcdef/slide000.png",
		Width:  640,
		Height: 480,
	})

	fmt.Print(rab2html.TitleSlideWithTextLink(page, "/talks/hello.html"))
	// Output:
	// <a href='/talks/hello.html'><img
	//   src='/rabbit-image/0123456789abcdef0123456789abcdef/slide000.png'
	//   title='Hello'
	//   alt='Hello'
	//   width='640'
	//   height='480'></a>
	// <br />
	// <a href='/talks/hello.html'>Hello</a>
}
