// Package logger provides the small leveled logger used by the harness.
// Output is meant for stderr; stdout belongs to the command loop.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Logger is the logging interface used by the library.
type Logger interface {
	Info(msg string, obj any)
	Warn(msg string, obj any)
	Debug(msg string, obj any)
	Error(msg string, obj any)
}

// NopLogger discards all log messages.
type NopLogger struct{}

func (NopLogger) Info(string, any)  {}
func (NopLogger) Warn(string, any)  {}
func (NopLogger) Debug(string, any) {}
func (NopLogger) Error(string, any) {}

var levelColors = map[string]string{
	"INFO":  "\x1b[32m",
	"WARN":  "\x1b[33m",
	"DEBUG": "\x1b[36m",
	"ERROR": "\x1b[31m",
}

type writerLogger struct {
	w     io.Writer
	color bool
	now   func() time.Time
}

func (l writerLogger) write(level, msg string, obj any) {
	if l.w == nil {
		return
	}

	ts := l.now().Format(time.RFC3339)
	lvl := fmt.Sprintf("%-5s", level)
	if l.color {
		lvl = levelColors[level] + lvl + "\x1b[0m"
	}
	if obj == nil {
		_, _ = fmt.Fprintf(l.w, "%s %s %s\n", ts, lvl, msg)
		return
	}

	b, err := json.Marshal(obj)
	if err != nil {
		_, _ = fmt.Fprintf(l.w, "%s %s %s obj=%q\n", ts, lvl, msg, fmt.Sprintf("%+v", obj))
		return
	}
	_, _ = fmt.Fprintf(l.w, "%s %s %s obj=%s\n", ts, lvl, msg, string(b))
}

// NewWriterLogger builds a logger that writes to an io.Writer.
// Levels are colorized when w is a terminal.
func NewWriterLogger(w io.Writer) Logger {
	return writerLogger{w: w, color: isTerminal(w), now: time.Now}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l writerLogger) Info(msg string, obj any)  { l.write("INFO", msg, obj) }
func (l writerLogger) Warn(msg string, obj any)  { l.write("WARN", msg, obj) }
func (l writerLogger) Debug(msg string, obj any) { l.write("DEBUG", msg, obj) }
func (l writerLogger) Error(msg string, obj any) { l.write("ERROR", msg, obj) }

// Debug writes a debug log when enabled and logger is non-nil.
func Debug(enabled bool, logger Logger, msg string, obj any) {
	if !enabled || logger == nil {
		return
	}
	logger.Debug(msg, obj)
}

// Info writes an info log when logger is non-nil.
func Info(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Info(msg, obj)
}

// Error writes an error log when logger is non-nil.
func Error(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Error(msg, obj)
}
