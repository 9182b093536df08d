package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON structured logger writing to w.
func New(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// Init installs the JSON logger as the process-wide default. Every main
// calls this before anything else can log.
func Init() {
	slog.SetDefault(New(os.Stdout))
}
