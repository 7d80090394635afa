// Package logging provides structured file logging for orderdesk.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/orderdesk/internal/colors"
)

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a new logger with additional key-value pairs.
	With(args ...any) Logger
	// Shutdown flushes any buffered logs and releases resources.
	Shutdown() error
}

type loggerImpl struct {
	mu       sync.RWMutex
	clogger  *clog.Logger
	file     *os.File
	redactor *redactor
	fields   []any
	path     string
}

// Init opens a JSON log file under the log directory.
// A disabled config yields a no-op logger.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	logDir := cfg.Dir
	if logDir == "" {
		dir, err := LogDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine log directory: %w", err)
		}
		logDir = dir
	}
	if err := rotate(logDir, cfg.MaxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}
	fname := fmt.Sprintf("%s%s_PID%d_%s.log",
		logFilePrefix,
		time.Now().Format("20060102_150405"),
		cfg.PID,
		strings.ReplaceAll(cfg.Command, " ", "_"))
	path := filepath.Join(logDir, fname)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	clogger := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
	})
	clogger.SetFormatter(clog.JSONFormatter)
	clogger = clogger.With("pid", cfg.PID, "command", cfg.Command)
	return &loggerImpl{
		clogger:  clogger,
		file:     f,
		redactor: newRedactor(),
		path:     path,
	}, nil
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *loggerImpl) Debug(msg string, args ...any) { l.log(clog.DebugLevel, msg, args) }
func (l *loggerImpl) Info(msg string, args ...any)  { l.log(clog.InfoLevel, msg, args) }
func (l *loggerImpl) Warn(msg string, args ...any)  { l.log(clog.WarnLevel, msg, args) }
func (l *loggerImpl) Error(msg string, args ...any) { l.log(clog.ErrorLevel, msg, args) }

// log writes a log entry with redaction applied to the key-value pairs.
func (l *loggerImpl) log(level clog.Level, msg string, args []any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]any, 0, len(l.fields)+len(args))
	all = append(all, l.fields...)
	all = append(all, args...)
	l.clogger.Log(level, msg, l.redactor.redact(all)...)
}

func (l *loggerImpl) With(args ...any) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fields := make([]any, 0, len(l.fields)+len(args))
	fields = append(fields, l.fields...)
	fields = append(fields, args...)
	return &loggerImpl{
		clogger:  l.clogger,
		file:     l.file,
		redactor: l.redactor,
		fields:   fields,
		path:     l.path,
	}
}

func (l *loggerImpl) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *loggerImpl) filePath() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.path
}

type noopLogger struct{}

func (n noopLogger) Debug(msg string, args ...any) {}
func (n noopLogger) Info(msg string, args ...any)  {}
func (n noopLogger) Warn(msg string, args ...any)  {}
func (n noopLogger) Error(msg string, args ...any) {}
func (n noopLogger) With(args ...any) Logger       { return n }
func (n noopLogger) Shutdown() error               { return nil }

// Nop returns a logger that discards everything.
func Nop() Logger {
	return noopLogger{}
}

var (
	globalLogger   Logger
	globalLoggerMu sync.RWMutex
)

// InitGlobal initializes the global logger from the loaded configuration
// and mirrors console output into it.
func InitGlobal() error {
	l, err := Init(FromGlobalConfig())
	if err != nil {
		return err
	}
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()
	colors.SetLogger(l)
	if path := CurrentLogFile(); path != "" {
		colors.Debug("Logging to file:", path)
	}
	return nil
}

// GetGlobal returns the global logger, or a no-op logger if not initialized.
func GetGlobal() Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if globalLogger == nil {
		return noopLogger{}
	}
	return globalLogger
}

// With returns a new global logger with additional key-value pairs.
func With(args ...any) Logger {
	return GetGlobal().With(args...)
}

// ShutdownGlobal shuts down the global logger.
func ShutdownGlobal() error {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Shutdown()
	globalLogger = nil
	colors.SetLogger(nil)
	return err
}

// CurrentLogFile returns the path of the active log file, or "" when file logging is off.
func CurrentLogFile() string {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if impl, ok := globalLogger.(*loggerImpl); ok {
		return impl.filePath()
	}
	return ""
}
