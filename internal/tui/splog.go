package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// kindKey marks records that the console decorates beyond their level
const kindKey = "kind"

const kindTip = "tip"

// consoleHandler prints each record as a bare line, prefixing warnings and
// tips. Attributes only reach the file log.
type consoleHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
}

func newConsoleHandler(w io.Writer, debug bool) *consoleHandler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	prefix := ""
	if record.Level == slog.LevelWarn {
		prefix = "⚠️  "
	}
	record.Attrs(func(a slog.Attr) bool {
		if a.Key == kindKey && a.Value.String() == kindTip {
			prefix = "💡 "
			return false
		}
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, prefix+record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *consoleHandler) WithGroup(_ string) slog.Handler { return h }

// teeHandler hands every record to each of its handlers that accepts the level
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, record.Level) {
			errs = append(errs, h.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t teeHandler) each(fn func(slog.Handler) slog.Handler) teeHandler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = fn(h)
	}
	return out
}

// envInt reads a non-negative integer from the environment, or returns def
func envInt(name string, def int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// newRotatingLog opens a size-rotated log file. BRANCHSYNC_LOG_MAX_SIZE (MB),
// BRANCHSYNC_LOG_MAX_BACKUPS and BRANCHSYNC_LOG_MAX_AGE (days) tune rotation.
func newRotatingLog(path string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    max(envInt("BRANCHSYNC_LOG_MAX_SIZE", 1), 1),
		MaxBackups: envInt("BRANCHSYNC_LOG_MAX_BACKUPS", 2),
		MaxAge:     max(envInt("BRANCHSYNC_LOG_MAX_AGE", 30), 1),
	}, nil
}

// SplogOptions configures a Splog
type SplogOptions struct {
	// Writer receives console output. Defaults to os.Stdout.
	Writer io.Writer
	// LogFilePath enables a rotating file log when non-empty.
	LogFilePath string
	// Debug shows debug messages on the console.
	Debug bool
}

// Splog provides structured logging and output
type Splog struct {
	logger  *slog.Logger
	logFile io.Closer
}

// NewSplog creates a new splog instance with console-only logging
// Debug messages are enabled when the DEBUG environment variable is set
func NewSplog() *Splog {
	splog, _ := NewSplogWithConfig(SplogOptions{Debug: os.Getenv("DEBUG") != ""})
	return splog
}

// NewSplogWithConfig creates a new splog instance with optional file logging.
// The file log records every level with timestamps.
func NewSplogWithConfig(opts SplogOptions) (*Splog, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	handlers := teeHandler{newConsoleHandler(writer, opts.Debug)}
	splog := &Splog{}

	if opts.LogFilePath != "" {
		logFile, err := newRotatingLog(opts.LogFilePath)
		if err != nil {
			return nil, err
		}
		splog.logFile = logFile
		handlers = append(handlers, slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	splog.logger = slog.New(handlers)
	return splog, nil
}

func (s *Splog) log(level slog.Level, format string, args []any, attrs ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, msg, attrs...)
}

// Info writes an info message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Info(format string, args ...any) {
	s.log(slog.LevelInfo, format, args)
}

// Warn writes a warning message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Warn(format string, args ...any) {
	s.log(slog.LevelWarn, format, args)
}

// Error writes an error message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Error(format string, args ...any) {
	s.log(slog.LevelError, format, args)
}

// Debug writes a debug message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Debug(format string, args ...any) {
	s.log(slog.LevelDebug, format, args)
}

// Tip writes a hint for the user
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Tip(format string, args ...any) {
	s.log(slog.LevelInfo, format, args, kindKey, kindTip)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logFile != nil {
		return s.logFile.Close()
	}
	return nil
}
