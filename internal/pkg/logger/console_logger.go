package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewConsoleLogger creates a text logger on standard output with the
// specified log level.
func NewConsoleLogger(level string) Logger {
	return newConsoleLogger(os.Stdout, level)
}

func newConsoleLogger(w io.Writer, level string) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return newSlogLogger(slog.New(handler))
}
