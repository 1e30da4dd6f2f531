// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger. "pretty" selects a colorized
// human-readable handler for local development; anything else gets JSON.
func Setup(format string) *slog.Logger {
	var handler slog.Handler
	switch format {
	case "pretty":
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			TimeFormat: time.TimeOnly,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
