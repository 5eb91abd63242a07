package ingredient

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a JSON slog.Logger on stderr at the named level. Unknown levels
// fall back to info.
func NewLogger(level string) *slog.Logger {
	return newLogger(os.Stderr, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug, info, warn and error to their slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
