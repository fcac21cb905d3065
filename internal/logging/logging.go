package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Options struct {
	// Dir receives slidesmith.log when Debug is set.
	Dir   string
	Debug bool
	// Stderr is where non-debug logs go. stdout carries the MCP stream.
	Stderr io.Writer
}

type FileLogger struct {
	Logger  *slog.Logger
	Close   func() error
	Path    string
	Enabled bool
}

func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func New(opts Options) (FileLogger, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	fallback := FileLogger{
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		Close:  func() error { return nil },
	}
	if !opts.Debug {
		return fallback, nil
	}
	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fallback, err
	}
	path := filepath.Join(dir, "slidesmith.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fallback, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	return FileLogger{
		Logger:  slog.New(handler),
		Close:   file.Close,
		Path:    path,
		Enabled: true,
	}, nil
}
