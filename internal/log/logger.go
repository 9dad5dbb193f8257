// Package log wraps log/slog with verbosity levels and an in-place progress line.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Verbosity levels
const (
	LevelQuiet = iota // Default: only errors and warnings
	LevelInfo         // -v: stage transitions, counts, requests
	LevelDebug        // -vv: API calls, classifier decisions
	LevelTrace        // -vvv: prompts and raw completions
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

const slogLevelTrace = slog.Level(-8)

var (
	mu         sync.Mutex
	verbosity  int
	logger     *slog.Logger
	output     io.Writer
	inProgress bool
)

// Initialize sets up the global text logger with the specified verbosity level.
func Initialize(level int, w io.Writer) {
	InitializeWithFormat(level, FormatText, w)
}

// InitializeWithFormat sets up the global logger, choosing between text and JSON records.
// Unknown formats fall back to text.
func InitializeWithFormat(level int, format string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	verbosity = level
	output = w
	logger = slog.New(newHandler(level, format, w))
}

func newHandler(level int, format string, w io.Writer) slog.Handler {
	var slogLevel slog.Level
	switch {
	case level >= LevelTrace:
		slogLevel = slogLevelTrace
	case level >= LevelDebug:
		slogLevel = slog.LevelDebug
	case level >= LevelInfo:
		slogLevel = slog.LevelInfo
	default:
		slogLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	if strings.EqualFold(format, FormatJSON) {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ValidFormat reports whether format names a supported log format.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON, "":
		return true
	}
	return false
}

// Logger returns the underlying slog logger.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	if IsInfo() {
		emit(slog.LevelInfo, msg, args)
	}
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	if IsDebug() {
		emit(slog.LevelDebug, msg, args)
	}
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	if IsTrace() {
		emit(slogLevelTrace, msg, args)
	}
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	emit(slog.LevelWarn, msg, args)
}

// Error logs at error level (always visible)
func Error(msg string, args ...any) {
	emit(slog.LevelError, msg, args)
}

func emit(level slog.Level, msg string, args []any) {
	mu.Lock()
	clearProgress()
	l := logger
	mu.Unlock()
	l.Log(context.Background(), level, msg, args...)
}

// Progress prints a progress message with carriage return (no newline).
// Only shown at info level or higher.
func Progress(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbosity >= LevelInfo {
		inProgress = true
		_, _ = fmt.Fprintf(output, "\r"+format, args...)
	}
}

// ProgressDone completes a progress line with "done" and newline
func ProgressDone() {
	mu.Lock()
	defer mu.Unlock()
	if verbosity >= LevelInfo && inProgress {
		_, _ = fmt.Fprintln(output, " done")
		inProgress = false
	}
}

// ProgressClear clears the current progress line
func ProgressClear() {
	mu.Lock()
	defer mu.Unlock()
	if inProgress {
		_, _ = fmt.Fprint(output, "\r\033[K")
		inProgress = false
	}
}

// clearProgress keeps a log record from overwriting the progress line. Callers hold mu.
func clearProgress() {
	if inProgress {
		_, _ = fmt.Fprintln(output)
		inProgress = false
	}
}

// IsInfo returns true if info-level logging is enabled
func IsInfo() bool {
	return Verbosity() >= LevelInfo
}

// IsDebug returns true if debug-level logging is enabled
func IsDebug() bool {
	return Verbosity() >= LevelDebug
}

// IsTrace returns true if trace-level logging is enabled
func IsTrace() bool {
	return Verbosity() >= LevelTrace
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	mu.Lock()
	defer mu.Unlock()
	return verbosity
}

// SetOutput changes the progress writer (useful for testing)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func init() {
	output = os.Stderr
	verbosity = LevelQuiet
	logger = slog.New(newHandler(LevelQuiet, FormatText, output))
}
