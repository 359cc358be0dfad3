package logger

import (
	"io"
	"log/slog"
	"os"
)

var log = slog.Default()

// Init installs the process logger on stdout. "development" gets text at
// debug level; anything else gets JSON at info level.
func Init(env string) {
	setup(os.Stdout, env)
}

func setup(w io.Writer, env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}

// Fatal logs at error level and exits with status 1.
func Fatal(msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}
