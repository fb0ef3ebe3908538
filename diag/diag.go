// Package diag implements the structured diagnostic channel the control
// surface subscribes to, replacing the original source's file-scope
// printf-style diagnostics with a small event sink capability.
package diag

import (
	"github.com/charmbracelet/log"
)

// Level mirrors charmbracelet/log's severity levels, kept as our own type
// so callers outside this package don't need the dependency directly.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// Sink receives structured diagnostic events from the DSP and control
// tasks. Implementations must not block.
type Sink interface {
	Event(level Level, msg string, fields ...any)
}

// logSink backs Sink with charmbracelet/log structured logging.
type logSink struct {
	logger *log.Logger
}

// NewLogSink builds a Sink that writes structured, leveled log lines.
func NewLogSink(logger *log.Logger) Sink {
	if logger == nil {
		logger = log.Default()
	}
	return &logSink{logger: logger}
}

func (s *logSink) Event(level Level, msg string, fields ...any) {
	switch level {
	case Debug:
		s.logger.Debug(msg, fields...)
	case Warn:
		s.logger.Warn(msg, fields...)
	case Error:
		s.logger.Error(msg, fields...)
	default:
		s.logger.Info(msg, fields...)
	}
}

// NoopSink discards every event; used in tests.
type NoopSink struct{}

func (NoopSink) Event(Level, string, ...any) {}
