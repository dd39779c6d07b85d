// Package logging configures the process-wide slog logger. The share
// and view commands own the terminal with a TUI, so stderr stays quiet
// unless LOG_LEVEL opens it up.
package logging

import (
	"log/slog"
	"os"
)

// Init installs the default logger. Level comes from LOG_LEVEL; errors
// only when unset.
func Init() {
	level := slog.LevelError

	if l, ok := os.LookupEnv("LOG_LEVEL"); ok {
		switch l {
		case "dev", "development", "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error", "production", "prod":
			level = slog.LevelError
		}
	}

	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	))
}
