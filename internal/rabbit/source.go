package rabbit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Source types accepted by the -T flag.
const (
	SourceStringObject = "stringobject" // the positional argument is the markup itself
	SourceFile         = "file"         // the positional argument is a path
)

// Source is the markup handed to the parser.
type Source struct {
	Raw     []byte // bytes exactly as given, before decoding
	Text    []byte // UTF-8 markup
	BaseDir string // resolves relative asset paths while rasterizing
}

// loadSource builds a Source of the given type from the positional arguments.
func loadSource(kind string, args []string, encoding, baseDir string) (*Source, error) {
	var raw []byte
	switch strings.ToLower(kind) {
	case SourceStringObject:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s source takes exactly one argument, got %d", ErrUsage, SourceStringObject, len(args))
		}
		raw = []byte(args[0])
	case SourceFile:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s source takes exactly one path, got %d", ErrUsage, SourceFile, len(args))
		}
		data, err := os.ReadFile(args[0]) // #nosec G304 -- path is the document to render
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
		}
		raw = data
		if baseDir == "" {
			baseDir = filepath.Dir(args[0])
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, kind)
	}

	text, err := decode(raw, encoding)
	if err != nil {
		return nil, err
	}
	return &Source{Raw: raw, Text: text, BaseDir: baseDir}, nil
}

// NewStringSource returns an in-memory UTF-8 source.
func NewStringSource(text string) *Source {
	return &Source{Raw: []byte(text), Text: []byte(text)}
}

// decode converts raw bytes in the named encoding to UTF-8.
// An empty name means UTF-8.
func decode(raw []byte, name string) ([]byte, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return raw, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrReadSource, name, err)
	}
	return text, nil
}
