// Package observability provides structured logging for the client.
//
// Logger wraps log/slog with a component name and a verbosity-derived level.
// Handles are constructed explicitly and passed to components; Named keeps a
// process-wide registry so repeated initialization with the same name returns
// the existing handle instead of duplicating output sinks.
package observability

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// LogFileName is the on-disk log sink, created in the working directory.
const LogFileName = "aicorp.log"

// Logger wraps slog with a persistent component name.
type Logger struct {
	inner *slog.Logger
	name  string
}

// Level maps a -v count to a slog level: 0=ERROR, 1=WARN, 2=INFO, >=3=DEBUG.
func Level(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelError
	case verbosity == 1:
		return slog.LevelWarn
	case verbosity == 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// New creates a logger for a component writing to w.
// Output defaults to os.Stderr if w is nil.
func New(name string, verbosity int, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(verbosity),
	})
	return &Logger{
		inner: slog.New(handler),
		name:  name,
	}
}

// NewWithHandler creates a logger with a custom slog handler.
func NewWithHandler(name string, h slog.Handler) *Logger {
	return &Logger{
		inner: slog.New(h),
		name:  name,
	}
}

var (
	registryMu sync.Mutex
	registry   = map[string]*Logger{}
	logFile    *os.File
)

// Named returns the registered logger for name, creating it on first use.
// The returned handle writes to stderr and to the aicorp.log file; calling
// Named again with the same name returns the same handle regardless of
// verbosity, so sinks are never duplicated.
func Named(name string, verbosity int) *Logger {
	registryMu.Lock()
	defer registryMu.Unlock()

	if l, ok := registry[name]; ok {
		return l
	}

	var w io.Writer = os.Stderr
	if logFile == nil {
		if f, err := os.OpenFile(LogFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			logFile = f
		}
	}
	if logFile != nil {
		w = io.MultiWriter(os.Stderr, logFile)
	}

	l := New(name, verbosity, w)
	registry[name] = l
	return l
}

// With returns a new Logger carrying an additional persistent field.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{
		inner: l.inner.With(slog.Any(key, value)),
		name:  l.name,
	}
}

// attrs prepends the component name to the arguments.
func (l *Logger) attrs(msg string, args []any) (string, []any) {
	return msg, append([]any{slog.String("component", l.name)}, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Debug(msg, args...)
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Info(msg, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Warn(msg, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	msg, args = l.attrs(msg, args)
	l.inner.Error(msg, args...)
}

// Name returns the component name associated with this logger.
func (l *Logger) Name() string {
	return l.name
}
