package logging

import (
	"io"
	"log/slog"

	"recetas-api/internal/config"
)

// New returns a logger whose handler and level depend on the environment:
// text for local work, JSON everywhere else, debug outside prod.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// Discard is a logger for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Err is the attribute used for errors across the codebase.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
