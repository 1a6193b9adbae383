package rabbit

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Severity is the level of a renderer log message.
type Severity int

// Severities, most verbose first.
const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityFatal
	SeverityUnknown
)

var severityNames = [...]string{"debug", "info", "warning", "error", "fatal", "unknown"}

// String returns the lower-case name used by --log-level.
func (s Severity) String() string {
	if s < SeverityDebug || s > SeverityUnknown {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity parses a --log-level value. "warn" is accepted for "warning".
func ParseSeverity(s string) (Severity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		return SeverityWarning, nil
	}
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return SeverityInfo, fmt.Errorf("%w: unknown log level %q", ErrUsage, s)
}

// DefaultProgName is the program name stamped on renderer messages.
const DefaultProgName = "Rabbit"

// Logger receives renderer log output. Messages may span several lines.
type Logger interface {
	Log(severity Severity, progName, message string)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(severity Severity, progName, message string)

// Log calls f.
func (f LoggerFunc) Log(severity Severity, progName, message string) {
	f(severity, progName, message)
}

// WriterLoggerName is the logger used when --logger is not given.
const WriterLoggerName = "stderr"

type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterLogger returns a Logger printing "[LEVEL] prog: message" lines to w.
func NewWriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

func (l *writerLogger) Log(severity Severity, progName, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		fmt.Fprintf(l.w, "[%s] %s: %s\n", strings.ToUpper(severity.String()), progName, line)
	}
}

// leveled drops messages below min.
type leveled struct {
	next Logger
	min  Severity
}

func (l leveled) Log(severity Severity, progName, message string) {
	if severity < l.min {
		return
	}
	l.next.Log(severity, progName, message)
}

func logf(l Logger, severity Severity, format string, args ...any) {
	l.Log(severity, DefaultProgName, fmt.Sprintf(format, args...))
}
