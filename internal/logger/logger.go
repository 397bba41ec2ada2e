// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	closer        io.Closer
)

// Init configures the package logger from cfg. Calling it again replaces the
// previous configuration and closes the previous log file.
func Init(cfg Config) error {
	cfg.process()

	var base slog.Handler
	var c io.Closer
	switch cfg.LogFilePath {
	case "":
		base = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: cfg.level})
	case "-":
		base = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.level,
			AddSource:  true,
			TimeFormat: time.TimeOnly,
		})
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory for '%s': %w", cfg.LogFilePath, err)
		}
		lumber := &lumberjack.Logger{
			Filename: cfg.LogFilePath,
			MaxSize:  cfg.MaxSizeMB,
			Compress: true,
		}
		c = lumber
		base = tint.NewHandler(lumber, &tint.Options{
			Level:      cfg.level,
			AddSource:  true,
			TimeFormat: time.TimeOnly,
			NoColor:    true,
		})
	}

	processed := cfg
	l := slog.New(newFilteringHandler(base, &processed))

	mu.Lock()
	prev := closer
	defaultLogger = l
	closer = c
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	Debugf("Logger initialized at level %s", cfg.level)
	return nil
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	c := closer
	closer = nil
	mu.Unlock()
	if c != nil {
		return c.Close()
	}
	return nil
}

// logAtLevel creates and logs a record at the specified level, capturing the correct caller source.
func logAtLevel(level slog.Level, tag string, format string, args ...interface{}) {
	l := Get()
	if !l.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = l.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, "", format, args...)
}

// DebugTagf logs a debug message carrying a filter tag.
func DebugTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, tag, format, args...)
}

func Infof(format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, "", format, args...)
}

func Warnf(format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, "", format, args...)
}

func Errorf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Tagged returns the configured logger with a tag attribute attached.
func Tagged(tag string) *slog.Logger {
	return Get().With(tagKey, tag)
}
