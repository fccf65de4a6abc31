// Package logger configures the process-wide slog logger. Output is JSON,
// written through a rotating lumberjack file, and recent warnings are kept in
// memory so the terminal browser can surface them.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel is the minimum level written.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Entry is a captured WARN or ERROR record.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// String renders the entry as a single status line.
func (e Entry) String() string {
	return fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level.String(), e.Message)
}

// recentEntries keeps the last n captured entries.
type recentEntries struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int
}

func newRecentEntries(n int) *recentEntries {
	return &recentEntries{entries: make([]Entry, n)}
}

func (r *recentEntries) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = e
	r.head = (r.head + 1) % len(r.entries)
	r.count = min(r.count+1, len(r.entries))
}

func (r *recentEntries) all() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, r.count)
	n := len(r.entries)
	for i := range out {
		out[i] = r.entries[(r.head-r.count+i+n)%n]
	}
	return out
}

// capturingHandler records WARN and above before passing records on.
type capturingHandler struct {
	inner  slog.Handler
	recent *recentEntries
}

func (h *capturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *capturingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.recent.add(Entry{Time: r.Time, Level: r.Level, Message: r.Message})
	}
	return h.inner.Handle(ctx, r)
}

func (h *capturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &capturingHandler{inner: h.inner.WithAttrs(attrs), recent: h.recent}
}

func (h *capturingHandler) WithGroup(name string) slog.Handler {
	return &capturingHandler{inner: h.inner.WithGroup(name), recent: h.recent}
}

var (
	// Log is the global logger; nil until InitLogger runs.
	Log *slog.Logger
	// LogPath is the file the logger writes to.
	LogPath string

	logWriter *lumberjack.Logger
	recent    *recentEntries
	debugMode bool
)

// DefaultLogPath returns ~/.config/tswindow/tswindow.log, falling back to the
// temp directory when there is no home directory.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "tswindow", "tswindow.log")
}

// InitLogger installs the global logger at level, writing to logPath
// (DefaultLogPath when empty).
func InitLogger(level LogLevel, logPath string) {
	debugMode = level == LevelDebug

	if logPath == "" {
		logPath = DefaultLogPath()
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
	LogPath = logPath

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
	recent = newRecentEntries(100)

	Log = slog.New(&capturingHandler{
		inner:  slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level.slogLevel()}),
		recent: recent,
	})
	slog.SetDefault(Log)
}

// Close flushes and closes the log file.
func Close() {
	if logWriter != nil {
		_ = logWriter.Close()
	}
}

func get() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }

// With returns the global logger with extra attributes.
func With(args ...any) *slog.Logger {
	return get().With(args...)
}

// Recent returns the captured warnings and errors, oldest first.
func Recent() []Entry {
	if recent == nil {
		return nil
	}
	return recent.all()
}

// IsDebugEnabled reports whether the logger was initialised at debug level.
func IsDebugEnabled() bool {
	return debugMode
}
