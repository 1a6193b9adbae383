package rab2html

import (
	"github.com/alnah/go-rab2html/internal/logging"
	"github.com/alnah/go-rab2html/internal/rabbit"
)

// hostLoggerName is the renderer logger routed to the converter's logger.
const hostLoggerName = "host"

// logTopic is the topic of converter messages.
const logTopic = "Rabbit:"

// hostLogger forwards renderer messages to a logging.Logger, one line per
// message line, under the renderer's program name.
type hostLogger struct {
	l *logging.Logger
}

func (h hostLogger) Log(severity rabbit.Severity, progName, message string) {
	if progName == "" {
		progName = rabbit.DefaultProgName
	}
	h.l.Log(levelFor(severity), progName+":", message)
}

func levelFor(s rabbit.Severity) logging.Level {
	switch s {
	case rabbit.SeverityDebug:
		return logging.LevelDebug
	case rabbit.SeverityInfo:
		return logging.LevelInfo
	case rabbit.SeverityWarning:
		return logging.LevelWarn
	default:
		return logging.LevelError
	}
}

// severityName maps a host level to the renderer's --log-level value.
func severityName(l logging.Level) string {
	switch l {
	case logging.LevelDebug:
		return rabbit.SeverityDebug.String()
	case logging.LevelInfo:
		return rabbit.SeverityInfo.String()
	case logging.LevelWarn:
		return rabbit.SeverityWarning.String()
	default:
		return rabbit.SeverityError.String()
	}
}

var _ rabbit.Logger = hostLogger{}
