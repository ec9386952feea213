package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text logger. Verbose enables debug
// level output, which also turns on resty request dumps elsewhere.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
