package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a slog.Logger writing to stdout at the level named by
// levelString ("DEBUG", "INFO", "WARN", "ERROR"; unknown values mean INFO).
func NewLogger(levelString string) *slog.Logger {
	return NewLoggerWithWriter(os.Stdout, levelString)
}

// NewLoggerWithWriter is NewLogger with an explicit destination, used by
// tests and by callers that need diagnostics on a stream other than stdout.
func NewLoggerWithWriter(writer io.Writer, levelString string) *slog.Logger {
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: ParseLevel(levelString),
	})
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(levelString string) slog.Level {
	switch strings.ToUpper(levelString) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
