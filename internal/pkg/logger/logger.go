// Package logger is the component-tagged logging facade of the service:
// one slog-backed implementation with a console (text) and a rotating
// file (JSON) handler behind a single Logger interface.
package logger

import (
	"fmt"
	"log/slog"
	"os"

	"rsa_engine_service/internal/pkg/config"
)

// Logger is the logging interface the service components depend on.
type Logger interface {
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})

	// WithComponent returns a derived logger whose records carry a
	// component attribute, so engine, key store and CLI output stay
	// attributable. Re-tagging replaces the previous component.
	WithComponent(component string) Logger
}

// slogLogger adapts a slog.Logger to the Logger interface. The console
// and file backends share it and differ only in the handler they
// construct it with.
type slogLogger struct {
	// root is the untagged logger WithComponent derives from; logger is
	// root plus the current component attribute.
	root   *slog.Logger
	logger *slog.Logger
}

func newSlogLogger(root *slog.Logger) *slogLogger {
	return &slogLogger{root: root, logger: root}
}

// Info logs an informational message.
func (l *slogLogger) Info(args ...interface{}) {
	l.logger.Info(formatArgs(args...))
}

// Warn logs a warning message.
func (l *slogLogger) Warn(args ...interface{}) {
	l.logger.Warn(formatArgs(args...))
}

// Error logs an error message.
func (l *slogLogger) Error(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
}

// Fatal logs a fatal message and exits.
func (l *slogLogger) Fatal(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
	os.Exit(1)
}

// Panic logs a panic message and panics.
func (l *slogLogger) Panic(args ...interface{}) {
	msg := formatArgs(args...)
	l.logger.Error(msg)
	panic(msg)
}

// WithComponent derives a tagged logger from the untagged root, so
// passing an already-tagged logger into another subsystem does not
// stack component attributes.
func (l *slogLogger) WithComponent(component string) Logger {
	return &slogLogger{
		root:   l.root,
		logger: l.root.With("component", component),
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func formatArgs(args ...interface{}) string {
	if len(args) == 0 {
		return ""
	}
	return fmt.Sprint(args...)
}
