// Package logging configures the process-wide slog loggers.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

var (
	mu   sync.RWMutex
	base *slog.Logger
)

// Options controls Init.
type Options struct {
	Level slog.Level
	// Path is the JSON log file. Empty disables file logging.
	Path string
	// Console receives human-readable logs. Defaults to os.Stderr.
	Console io.Writer

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level := a.Value.Any().(slog.Level)
		levelLabel, exists := levelNames[level]
		if !exists {
			levelLabel = level.String()
		}
		a.Value = slog.StringValue(levelLabel)
	}
	return a
}

// Init installs the default logger: text to the console and, when a path is
// set, JSON to a rotated file. The returned function closes the file.
func Init(opts Options) (func() error, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{
			Level:       opts.Level,
			ReplaceAttr: replaceLevel,
		}),
	}

	closeFunc := func() error { return nil }
	if opts.Path != "" {
		writer, err := newRotatingWriter(opts)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:       opts.Level,
			ReplaceAttr: replaceLevel,
		}))
		closeFunc = writer.Close
	}

	logger := slog.New(fanout(handlers))

	mu.Lock()
	base = logger
	mu.Unlock()
	slog.SetDefault(logger)

	return closeFunc, nil
}

// ForService returns a logger tagged with the 'service' attribute. Before
// Init it derives from slog.Default().
func ForService(serviceName string) *slog.Logger {
	mu.RLock()
	l := base
	mu.RUnlock()

	if l == nil {
		l = slog.Default()
	}
	return l.With("service", serviceName)
}

// ParseLevel accepts trace, debug, info, warn, error and fatal.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "fatal":
		return LevelFatal, nil
	case "":
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func newRotatingWriter(opts Options) (*lumberjack.Logger, error) {
	// lumberjack does not create directories
	logDir := filepath.Dir(opts.Path)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}
	if opts.MaxSizeMB > 0 {
		w.MaxSize = opts.MaxSizeMB
	}
	if opts.MaxBackups > 0 {
		w.MaxBackups = opts.MaxBackups
	}
	if opts.MaxAgeDays > 0 {
		w.MaxAge = opts.MaxAgeDays
	}
	return w, nil
}

// fanoutHandler writes every record to each handler that accepts its level.
type fanoutHandler []slog.Handler

func fanout(handlers []slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return fanoutHandler(handlers)
}

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, hh := range h {
		if hh.Enabled(ctx, r.Level) {
			errs = append(errs, hh.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, hh := range h {
		out[i] = hh.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, hh := range h {
		out[i] = hh.WithGroup(name)
	}
	return out
}
