// Package colors provides console output helpers for orderdesk commands.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled = false
	quiet        = false
	logger       Logger
	loggerMu     sync.RWMutex

	outMu  sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("ORDERDESK_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// SetQuiet suppresses info and success output.
func SetQuiet(enabled bool) {
	quiet = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil writers restore the defaults.
func SetOutput(out, errOut io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// emit writes a line and falls back to a bare stderr write if the target fails.
func emit(toErr bool, format string, args ...any) {
	outMu.Lock()
	w := stdout
	if toErr {
		w = stderr
	}
	_, err := fmt.Fprintf(w, format, args...)
	outMu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write console output: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Error(msg)
	}
	emit(true, "%sError:%s %s%s\n", Red, Reset, msg, Reset)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Warn(msg)
	}
	emit(true, "%sWarning:%s %s%s\n", Yellow, Reset, msg, Reset)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg, "type", "success")
	}
	if quiet {
		return
	}
	emit(false, "%s%s%s %s%s\n", Green, checkmark, Reset, msg, Reset)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	if quiet {
		return
	}
	emit(false, "%s%s%s\n", Blue, msg, Reset)
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !debugEnabled {
		return
	}
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Debug(msg)
	}
	emit(true, "%sDebug:%s %s%s\n", Cyan, Reset, msg, Reset)
}
