package rabbit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Env carries everything a Run call may reach outside its arguments.
type Env struct {
	Rasterizer Rasterizer

	// Loggers are selectable with --logger, in addition to WriterLoggerName.
	Loggers map[string]Logger

	// HeadingHooks are installed in the parser for this call only.
	HeadingHooks []HeadingHook

	// NewSaver builds the saver used by --output-html. Nil means FileSaver.
	NewSaver func() Saver

	// Stderr receives usage text and the default logger output. Nil means os.Stderr.
	Stderr io.Writer
}

type options struct {
	saveImages bool
	size       string
	baseName   string
	outputHTML bool
	logger     string
	logLevel   string
	sourceType string
	encoding   string
	baseDir    string
}

// Run parses command-line style arguments and renders the document they name.
//
//	-s, --save-as-image       rasterize every slide
//	-S, --size W,H            slide size in pixels
//	-b, --base-name PREFIX    image path prefix
//	    --output-html         hand slides to the saver
//	    --logger NAME         logger from env.Loggers
//	    --log-level LEVEL     minimum severity
//	-T, --type TYPE           stringobject or file
//	-e, --encoding NAME       source encoding
//	    --base-dir DIR        directory for relative asset paths
//
// Positional arguments follow the flags, after "--" when they may start with a dash.
func Run(ctx context.Context, env *Env, args ...string) error {
	if env == nil {
		env = &Env{}
	}
	stderr := env.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var o options
	fs := pflag.NewFlagSet("rabbit", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVarP(&o.saveImages, "save-as-image", "s", false, "rasterize every slide")
	fs.StringVarP(&o.size, "size", "S", "800,600", "slide size as WIDTH,HEIGHT")
	fs.StringVarP(&o.baseName, "base-name", "b", "slide", "image path prefix")
	fs.BoolVar(&o.outputHTML, "output-html", false, "hand slides to the HTML saver")
	fs.StringVar(&o.logger, "logger", WriterLoggerName, "logger name")
	fs.StringVar(&o.logLevel, "log-level", "info", "minimum log severity")
	fs.StringVarP(&o.sourceType, "type", "T", SourceFile, "source type (stringobject, file)")
	fs.StringVarP(&o.encoding, "encoding", "e", "", "source encoding")
	fs.StringVar(&o.baseDir, "base-dir", "", "directory for relative asset paths")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if !o.saveImages && !o.outputHTML {
		return fmt.Errorf("%w: nothing to do without --save-as-image or --output-html", ErrUsage)
	}

	width, height, err := parseSize(o.size)
	if err != nil {
		return err
	}
	severity, err := ParseSeverity(o.logLevel)
	if err != nil {
		return err
	}
	logger, err := selectLogger(env, stderr, o.logger)
	if err != nil {
		return err
	}
	logger = leveled{next: logger, min: severity}

	src, err := loadSource(o.sourceType, fs.Args(), o.encoding, o.baseDir)
	if err != nil {
		return err
	}

	deck := NewParser(env.HeadingHooks...).Parse(src)
	if deck.Orphans > 0 {
		logf(logger, SeverityWarning, "ignored %d block(s) before the first slide", deck.Orphans)
	}
	if len(deck.Slides) == 0 {
		logf(logger, SeverityWarning, "no slides found")
	}

	gen := NewGenerator(deck, GeneratorOptions{
		Width:      width,
		Height:     height,
		BaseName:   o.baseName,
		SaveImages: o.saveImages,
		Rasterizer: env.Rasterizer,
		Logger:     logger,
	})

	var saver Saver
	if o.outputHTML {
		if env.NewSaver != nil {
			saver = env.NewSaver()
		} else {
			saver = &FileSaver{}
		}
	}

	if err := gen.Save(ctx, saver); err != nil {
		logf(logger, SeverityError, "%v", err)
		return err
	}
	logf(logger, SeverityInfo, "generated %d slide(s)", len(deck.Slides))
	return nil
}

// parseSize parses "W,H" as two positive pixel counts.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q: want WIDTH,HEIGHT", ErrInvalidSize, s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("%w: %q: width must be a positive integer", ErrInvalidSize, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %q: height must be a positive integer", ErrInvalidSize, s)
	}
	return w, h, nil
}

func selectLogger(env *Env, stderr io.Writer, name string) (Logger, error) {
	if l, ok := env.Loggers[name]; ok {
		return l, nil
	}
	if name == WriterLoggerName {
		return NewWriterLogger(stderr), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLogger, name)
}
