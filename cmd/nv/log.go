package main

import (
	"log/slog"
	"os"
	"strings"
)

// initLogger installs a text handler on stderr so logs never mix with
// JSON results on stdout.
func initLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}
	h := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(h))
}
