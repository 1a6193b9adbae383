package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/config"
)

// ---------------------------------------------------------------------------
// TestHintFor - Error hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "config not found",
			err:      fmt.Errorf("%w: tried work.yaml, /home/u/.config/rab2html/work.yaml", config.ErrConfigNotFound),
			contains: "create /home/u/.config/rab2html/work.yaml",
		},
		{
			name:     "template not found",
			err:      fmt.Errorf("%w: fancy", rab2html.ErrTemplateNotFound),
			contains: "bootstrap_carousel",
		},
		{
			name:     "page load",
			err:      fmt.Errorf("%w: %w", rab2html.ErrRender, rab2html.ErrPageLoad),
			contains: "--timeout",
		},
		{
			name:     "image directory",
			err:      rab2html.ErrImageDirectory,
			contains: "writable",
		},
		{
			name:     "cache",
			err:      &cacheError{addr: "redis:6379", err: errors.New("refused")},
			contains: "redis:6379",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hintFor(tt.err); !strings.Contains(got, tt.contains) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestHintFor_NoHint(t *testing.T) {
	t.Parallel()

	if got := hintFor(errors.New("boom")); got != "" {
		t.Errorf("hintFor() = %q, want empty", got)
	}
}

func TestPrintError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printError(&buf, rab2html.ErrImageDirectory)

	got := buf.String()
	if !strings.HasPrefix(got, "error: "+rab2html.ErrImageDirectory.Error()) {
		t.Errorf("output = %q", got)
	}
	if !strings.Contains(got, "hint:") || !strings.HasSuffix(got, "\n") {
		t.Errorf("output should carry a hint line, got %q", got)
	}
}

func TestCacheError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &cacheError{addr: "localhost:6379", err: cause}

	if !errors.Is(err, ErrCacheConnect) || !errors.Is(err, cause) {
		t.Error("cacheError should match both ErrCacheConnect and its cause")
	}
	if !strings.Contains(err.Error(), "localhost:6379") {
		t.Errorf("Error() = %q, want the address", err.Error())
	}
}
