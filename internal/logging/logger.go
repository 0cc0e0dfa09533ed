package logging

import (
	"io"
	"log/slog"
)

// New returns the JSON logger used by every subcommand.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: level <= slog.LevelDebug,
		Level:     level,
	})).With(slog.String("service", "podium"))
}
