// Package logging provides the leveled topic logger used by the converter,
// the site builder and the CLI. Lines look like
//
//	          Rabbit: created slide image directory "_site/rabbit-image/..."
//
// with the topic right-aligned on a fixed column. Level labels are colored
// when the writer is a terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is a log severity.
type Level int

// Levels, most verbose first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// topicWidth is the column the topic is right-aligned to.
const topicWidth = 20

var levelNames = [...]string{"debug", "info", "warn", "error"}

// String returns the lower-case level name.
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name. "warning" is accepted for "warn".
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (use debug, info, warn, error)", s)
}

// Logger writes leveled topic lines. It is safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	color  bool
	styles [4]lipgloss.Style
}

// New creates a Logger writing messages at level or above to w.
// Colors are enabled when w is a terminal.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		w:     w,
		level: level,
		color: IsTTY(w),
		styles: [4]lipgloss.Style{
			LevelDebug: lipgloss.NewStyle().Faint(true),
			LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),           // Green
			LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),           // Yellow
			LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // Red
		},
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

// IsTTY reports whether w is a character device.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// Level returns the minimum level written.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevel changes the minimum level written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// Log writes one line per line of msg under topic.
func (l *Logger) Log(level Level, topic, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	prefix := fmt.Sprintf("%*s", topicWidth, topic)
	if l.color && level <= LevelError {
		prefix = l.styles[level].Render(prefix)
	}
	prefix += " "
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		_, _ = fmt.Fprintln(l.w, prefix+line)
	}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(topic, format string, args ...any) {
	l.Log(LevelDebug, topic, fmt.Sprintf(format, args...))
}

// Info logs at LevelInfo.
func (l *Logger) Info(topic, format string, args ...any) {
	l.Log(LevelInfo, topic, fmt.Sprintf(format, args...))
}

// Warn logs at LevelWarn.
func (l *Logger) Warn(topic, format string, args ...any) {
	l.Log(LevelWarn, topic, fmt.Sprintf(format, args...))
}

// Error logs at LevelError.
func (l *Logger) Error(topic, format string, args ...any) {
	l.Log(LevelError, topic, fmt.Sprintf(format, args...))
}
