package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey struct{}

// Config holds logger configuration
type Config struct {
	Level string
	// File enables a rotating log file in addition to stderr
	File string
	JSON bool
}

// Init installs the default slog logger backed by a charmbracelet handler.
func Init(cfg Config) (*slog.Logger, error) {
	var writer io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	level, err := charmlog.ParseLevel(cfg.Level)
	if err != nil {
		level = charmlog.InfoLevel
	}
	formatter := charmlog.TextFormatter
	if cfg.JSON {
		formatter = charmlog.JSONFormatter
	}
	handler := charmlog.NewWithOptions(writer, charmlog.Options{
		ReportTimestamp: true,
		Level:           level,
		Formatter:       formatter,
		Prefix:          "accountability",
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(contextKey{}).(*slog.Logger)
	if ok {
		return logger
	}
	return slog.Default()
}
