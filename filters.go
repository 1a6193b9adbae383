package rab2html

import (
	"html"
	"strings"
)

// firstContainer returns the content and meta of the first container in
// text, or ok=false when text is not generated content.
func firstContainer(text string) (content string, meta map[string]string, ok bool) {
	cs := ExtractContainers(text)
	if len(cs) == 0 {
		return "", nil, false
	}
	meta = ExtractMeta(cs[0].Content)
	if len(meta) == 0 {
		return "", nil, false
	}
	return cs[0].Content, meta, true
}

// SlideOnly returns the slide HTML of the first container in text.
// Text that is not generated content is returned unchanged.
func SlideOnly(text string) string {
	content, _, ok := firstContainer(text)
	if !ok {
		return text
	}
	slide, ok := ExtractSlideHTML(content)
	if !ok {
		return text
	}
	return slide
}

// TitleSlideLink returns the title slide image of the first container in
// text wrapped in a link to url. With withTextLink, a text link carrying the
// deck title follows the image. Text that is not generated content is
// returned unchanged.
func TitleSlideLink(text, url string, withTextLink bool) string {
	_, meta, ok := firstContainer(text)
	if !ok {
		return text
	}

	escapedURL := html.EscapeString(url)
	escapedTitle := html.EscapeString(meta["title"])

	var b strings.Builder
	b.WriteString("<a href='" + escapedURL + "'><img\n")
	b.WriteString("  src='" + html.EscapeString(meta["image"]) + "'\n")
	b.WriteString("  title='" + escapedTitle + "'\n")
	b.WriteString("  alt='" + escapedTitle + "'\n")
	b.WriteString("  width='" + html.EscapeString(meta["width"]) + "'\n")
	b.WriteString("  height='" + html.EscapeString(meta["height"]) + "'></a>\n")
	if withTextLink {
		b.WriteString("<br />\n")
		b.WriteString("<a href='" + escapedURL + "'>" + escapedTitle + "</a>\n")
	}
	return b.String()
}

// TitleSlideWithTextLink is TitleSlideLink with the text link.
func TitleSlideWithTextLink(text, url string) string {
	return TitleSlideLink(text, url, true)
}
