package logger

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jwebster45206/calamity-forge/internal/config"
)

// Setup configures the global slog logger based on environment. CLI output
// owns stdout, so logs go to w (normally stderr).
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// NewRunID returns an id for one compile run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID adds a compile run id to logger context
func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	return logger.With("run_id", runID)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
