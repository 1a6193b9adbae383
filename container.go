package rab2html

import (
	"fmt"
	"strconv"
	"strings"
)

// Container markers. Every marker occupies a whole line.
const (
	containerBeginPrefix = "<!-- begin rabbit-content "
	containerEndPrefix   = "<!-- end rabbit-content "
	markerSuffix         = " -->"

	metaBegin  = "<!-- meta"
	metaEnd    = "-->"
	slideBegin = "<!-- begin slide -->"
	slideEnd   = "<!-- end slide -->"
	textBegin  = "<!-- begin text -->"
	textEnd    = "<!-- end text -->"

	digestLen = 32
)

// Container is one rendered document found in a text.
type Container struct {
	Digest  string
	Content string // lines between the begin and end markers
}

// Encode serializes r as a container string.
// Line breaks in meta values are replaced by spaces, and one trailing
// newline is dropped from the slide HTML and the text.
func Encode(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s\n", containerBeginPrefix, r.Digest, markerSuffix)
	b.WriteString(metaBegin + "\n")
	writeMeta(&b, "title", r.Title)
	writeMeta(&b, "image", r.Image)
	writeMeta(&b, "width", strconv.Itoa(r.Width))
	writeMeta(&b, "height", strconv.Itoa(r.Height))
	b.WriteString(metaEnd + "\n")
	b.WriteString(slideBegin + "\n" + chomp(r.SlideHTML) + "\n" + slideEnd + "\n")
	b.WriteString(textBegin + "\n" + chomp(r.Text) + "\n" + textEnd + "\n")
	fmt.Fprintf(&b, "%s%s%s\n", containerEndPrefix, r.Digest, markerSuffix)
	return b.String()
}

func writeMeta(b *strings.Builder, key, value string) {
	value = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(value)
	b.WriteString(key + " " + value + "\n")
}

func chomp(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

// ExtractContainers returns every well-formed container in text, in order.
//
// A container starts at a begin line and ends at the first following end
// line carrying the same digest. Both lines must be newline-terminated and at
// least one line must separate them. A begin line without a matching end line
// is skipped.
func ExtractContainers(text string) []Container {
	lines := splitLines(text)
	var out []Container
	for i := 0; i < len(lines); i++ {
		digest, ok := beginDigest(lines[i])
		if !ok {
			continue
		}
		end := containerEndPrefix + digest + markerSuffix
		j, ok := findEnd(lines, i+2, end, false)
		if !ok {
			continue
		}
		out = append(out, Container{Digest: digest, Content: joinLines(lines[i+1 : j])})
		i = j
	}
	return out
}

// ExtractMeta returns the key/value pairs of every meta block in content.
// Later keys overwrite earlier ones. An empty map means content is not a
// recognized container.
func ExtractMeta(content string) map[string]string {
	meta := make(map[string]string)
	lines := splitLines(content)
	for i := 0; i < len(lines); i++ {
		if !lines[i].terminated || lines[i].text != metaBegin {
			continue
		}
		j, ok := findEnd(lines, i+2, metaEnd, false)
		if !ok {
			continue
		}
		for _, l := range lines[i+1 : j] {
			if key, value, ok := parseMetaLine(l.text); ok {
				meta[key] = value
			}
		}
		i = j
	}
	return meta
}

// ExtractSlideHTML returns the slide region of content.
func ExtractSlideHTML(content string) (string, bool) {
	return extractRegion(content, slideBegin, slideEnd, false)
}

// ExtractText returns the text region of content. The end marker may be the
// last line of content, as it is inside an extracted container.
func ExtractText(content string) (string, bool) {
	return extractRegion(content, textBegin, textEnd, true)
}

func extractRegion(content, begin, end string, allowLast bool) (string, bool) {
	lines := splitLines(content)
	for i := range lines {
		if !lines[i].terminated || lines[i].text != begin {
			continue
		}
		if j, ok := findEnd(lines, i+2, end, allowLast); ok {
			return joinLines(lines[i+1 : j]), true
		}
	}
	return "", false
}

// line is one line of a text and whether a newline followed it.
type line struct {
	text       string
	terminated bool
}

func splitLines(s string) []line {
	var lines []line
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, line{text: s})
			break
		}
		lines = append(lines, line{text: s[:i], terminated: true})
		s = s[i+1:]
	}
	return lines
}

func joinLines(lines []line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.text
	}
	return strings.Join(parts, "\n")
}

// findEnd returns the index of the first line at or after from equal to end.
// The line must be newline-terminated unless allowLast and it is the last line.
func findEnd(lines []line, from int, end string, allowLast bool) (int, bool) {
	for j := from; j < len(lines); j++ {
		if lines[j].text != end {
			continue
		}
		if lines[j].terminated || (allowLast && j == len(lines)-1) {
			return j, true
		}
	}
	return 0, false
}

// beginDigest reports whether l is a container begin line and returns its digest.
func beginDigest(l line) (string, bool) {
	if !l.terminated {
		return "", false
	}
	rest, ok := strings.CutPrefix(l.text, containerBeginPrefix)
	if !ok {
		return "", false
	}
	digest, ok := strings.CutSuffix(rest, markerSuffix)
	if !ok || !isDigest(digest) {
		return "", false
	}
	return digest, true
}

func isDigest(s string) bool {
	if len(s) != digestLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// parseMetaLine splits "KEY VALUE": a run of non-space characters, then
// spaces or tabs, then the rest of the line.
func parseMetaLine(s string) (key, value string, ok bool) {
	i := strings.IndexAny(s, " \t\r\f\v")
	if i <= 0 || (s[i] != ' ' && s[i] != '\t') {
		return "", "", false
	}
	return s[:i], strings.TrimLeft(s[i:], " \t"), true
}

// Decode parses the first container of text back into a Result.
// Width and height that are not integers decode as zero.
func Decode(text string) (*Result, error) {
	cs := ExtractContainers(text)
	if len(cs) == 0 {
		return nil, ErrNotContainer
	}
	meta := ExtractMeta(cs[0].Content)
	if len(meta) == 0 {
		return nil, fmt.Errorf("%w: no meta block", ErrNotContainer)
	}
	slide, _ := ExtractSlideHTML(cs[0].Content)
	body, _ := ExtractText(cs[0].Content)
	width, _ := strconv.Atoi(meta["width"])
	height, _ := strconv.Atoi(meta["height"])
	return &Result{
		Digest:    cs[0].Digest,
		Title:     meta["title"],
		Image:     meta["image"],
		Width:     width,
		Height:    height,
		SlideHTML: slide,
		Text:      body,
	}, nil
}
