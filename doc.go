// Package rab2html renders Rabbit slide documents into static-site HTML.
//
// A document is Markdown where every level-1 heading opens a slide:
//
//	# Deck title
//
//	Author
//
//	# First point
//
//	* detail
//
//	## Comment
//
//	Shown next to the slide, never on it.
//
// Convert rasterizes every slide into
// <destination>/rabbit-image/<digest>/slideNNN.png, lays the images out with a
// slide template, and returns a container string:
//
//	<!-- begin rabbit-content DIGEST -->
//	<!-- meta
//	title Deck title
//	image /rabbit-image/DIGEST/slide000.png
//	width 640
//	height 480
//	-->
//	<!-- begin slide -->
//	...template output...
//	<!-- end slide -->
//	<!-- begin text -->
//	...per-slide HTML with commentary...
//	<!-- end text -->
//	<!-- end rabbit-content DIGEST -->
//
// Page templates take pieces back out with SlideOnly, TitleSlideLink and
// TitleSlideWithTextLink, which return any other text unchanged.
//
// Basic usage:
//
//	conv, err := rab2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	out, err := conv.Convert(ctx, rab2html.Source{Text: markup}, rab2html.RenderConfig{
//	    OutputBase: "_site",
//	})
//
// A Converter caches containers by digest and records the image paths a
// site cleanup must keep (see KeepList).
package rab2html
