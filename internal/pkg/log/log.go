package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu          sync.Mutex
	multiLogger *slog.Logger
	closers     []io.Closer
)

// ErrLoggerAlreadyInitialized is returned by Start when the logging
// package was already started and not stopped since.
var ErrLoggerAlreadyInitialized = errors.New("logger already initialized")

// Start initializes the logging package with the given configuration.
// If no configuration is provided, it uses the default configuration.
func Start(cfgs ...*Config) error {
	mu.Lock()
	defer mu.Unlock()

	if multiLogger != nil {
		return ErrLoggerAlreadyInitialized
	}

	cfg := defaultConfig()
	if len(cfgs) > 0 && cfgs[0] != nil {
		cfg = cfgs[0]
	}

	var handlers []slog.Handler

	if !cfg.NoStdout {
		opts := &slog.HandlerOptions{Level: parseLevel(cfg.StdoutLevel)}
		if cfg.JSON {
			handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stdout, opts))
		}
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		closers = append(closers, f)
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: parseLevel(cfg.FileLevel)}))
	}

	multiLogger = slog.New(&multiHandler{handlers: handlers})
	return nil
}

// Stop flushes and tears down the logging system. Logging calls made
// after Stop are dropped.
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	for _, c := range closers {
		c.Close()
	}
	closers = nil
	multiLogger = nil
}

func Debug(msg string, args ...any) { logWithLevel(slog.LevelDebug, msg, args...) }
func Info(msg string, args ...any)  { logWithLevel(slog.LevelInfo, msg, args...) }
func Warn(msg string, args ...any)  { logWithLevel(slog.LevelWarn, msg, args...) }
func Error(msg string, args ...any) { logWithLevel(slog.LevelError, msg, args...) }

func logWithLevel(level slog.Level, msg string, args ...any) {
	mu.Lock()
	logger := multiLogger
	mu.Unlock()

	if logger != nil {
		logger.Log(context.Background(), level, msg, args...)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
