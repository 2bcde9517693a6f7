// Package logger is the process-wide log for the overlap CLI.
//
// Errors are always written. Everything else is written only in verbose
// mode, which the --verbose flag turns on. Output goes to stderr unless
// SetOutput redirects it.
package logger

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	verbose atomic.Bool

	outMu  sync.Mutex
	output io.Writer = os.Stderr
)

// SetVerbose switches verbose mode.
func SetVerbose(v bool) { verbose.Store(v) }

// IsVerbose reports whether verbose mode is on.
func IsVerbose() bool { return verbose.Load() }

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	output = w
}

// sink resolves the current output on every write, so loggers handed out
// before a SetOutput call follow it.
type sink struct{}

func (sink) Write(p []byte) (int, error) {
	outMu.Lock()
	defer outMu.Unlock()
	return output.Write(p)
}

func emit(level slog.Level, format string, args ...any) {
	if level < slog.LevelError && !IsVerbose() {
		return
	}
	line := "[" + level.String() + "] " + fmt.Sprintf(format, args...) + "\n"
	_, _ = io.WriteString(sink{}, line)
}

// Debug logs pipeline detail in verbose mode.
func Debug(format string, args ...any) { emit(slog.LevelDebug, format, args...) }

// Info logs progress in verbose mode.
func Info(format string, args ...any) { emit(slog.LevelInfo, format, args...) }

// Warn logs a recoverable problem in verbose mode.
func Warn(format string, args ...any) { emit(slog.LevelWarn, format, args...) }

// Error always logs.
func Error(format string, args ...any) { emit(slog.LevelError, format, args...) }

// Section starts a titled block of verbose output.
func Section(name string) {
	if IsVerbose() {
		_, _ = fmt.Fprintf(sink{}, "\n=== %s ===\n", name)
	}
}

// Timed returns a func that logs the elapsed time of step at debug level.
//
//	defer logger.Timed("embedding")()
func Timed(step string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", step, time.Since(start).Round(time.Microsecond))
	}
}

// Slog returns a structured logger on the same output. Its threshold is
// debug in verbose mode and warn otherwise, fixed at the time of the call.
func Slog() *slog.Logger {
	threshold := slog.LevelWarn
	if IsVerbose() {
		threshold = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(sink{}, &slog.HandlerOptions{Level: threshold}))
}

// StdLog adapts the output for APIs that take a *log.Logger, such as
// http.Server.ErrorLog. Lines are logged at error level.
func StdLog() *log.Logger {
	return slog.NewLogLogger(slog.NewTextHandler(sink{}, nil), slog.LevelError)
}
