// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnv names the variable that sets the log level.
const LevelEnv = "PTA_LOG_LEVEL"

// Init installs a text handler on stderr as the default slog logger. The
// level comes from PTA_LOG_LEVEL (debug/info/warn/error, default warn so
// normal runs only show the colored console output).
func Init() {
	InitWriter(os.Stderr, os.Getenv(LevelEnv))
}

// InitWriter is Init with an explicit writer and level string.
func InitWriter(w io.Writer, level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
