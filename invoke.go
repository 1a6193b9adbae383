package rab2html

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alnah/go-rab2html/internal/rabbit"
)

// invocation is the outcome of one renderer run.
type invocation struct {
	Slides []capturedSlide // by ascending index
	Text   string
}

// renderArgs builds the renderer argument list for one document.
func renderArgs(text, imageBase string, src Source, cfg RenderConfig) []string {
	args := []string{
		"-s",
		"-S", strconv.Itoa(cfg.Width) + "," + strconv.Itoa(cfg.Height),
		"-b", imageBase,
		"--output-html",
		"--logger", hostLoggerName,
		"--log-level", cfg.LogLevel,
	}
	if src.Encoding != "" {
		args = append(args, "-e", src.Encoding)
	}
	if src.Dir != "" {
		args = append(args, "--base-dir", src.Dir)
	}
	// Markup may start with "-".
	return append(args, "-T", rabbit.SourceStringObject, "--", text)
}

// invoke runs the renderer on its own goroutine with a fresh capture scope
// and waits for it. Errors and panics of the run are returned wrapped in
// ErrRender once the goroutine has finished.
func (c *Converter) invoke(ctx context.Context, args []string) (invocation, error) {
	scope := newCaptureScope()
	env := &rabbit.Env{
		Rasterizer:   c.rasterizer,
		Loggers:      map[string]rabbit.Logger{hostLoggerName: hostLogger{l: c.logger}},
		HeadingHooks: []rabbit.HeadingHook{commentHook{}},
		NewSaver:     func() rabbit.Saver { return &captureSaver{} },
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("renderer panic: %v", r)
			}
		}()
		done <- c.runCommand(withCaptureScope(ctx, scope), env, args...)
	}()

	if err := <-done; err != nil {
		return invocation{}, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return invocation{Slides: scope.slides(), Text: scope.transcript()}, nil
}
