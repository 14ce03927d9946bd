// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "DEBUG"
	// InfoLevel is used for general operational information
	InfoLevel Level = "INFO"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "WARN"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "ERROR"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "FATAL"
)

// slogFatal sits above slog.LevelError so fatal entries always pass the level filter
const slogFatal = slog.Level(12)

// ParseLevel converts a case-insensitive level name into a Level
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel, nil
	case InfoLevel, "":
		return InfoLevel, nil
	case WarnLevel, "WARNING":
		return WarnLevel, nil
	case ErrorLevel:
		return ErrorLevel, nil
	case FatalLevel:
		return FatalLevel, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case FatalLevel:
		return slogFatal
	default:
		return slog.LevelInfo
	}
}

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// SlogLogger adapts a slog.Handler to the Logger interface
type SlogLogger struct {
	handler slog.Handler
	exit    func(code int)
}

// NewSlogLogger wraps an existing slog handler
func NewSlogLogger(handler slog.Handler) *SlogLogger {
	return &SlogLogger{handler: handler, exit: os.Exit}
}

// NewJSONLogger creates a logger that writes one JSON object per entry
func NewJSONLogger(output io.Writer, level Level) *SlogLogger {
	if output == nil {
		output = os.Stdout
	}

	return NewSlogLogger(slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level:       level.slogLevel(),
		AddSource:   true,
		ReplaceAttr: renameAttrs,
	}))
}

// NewTextLogger creates a human-friendly logger; colored output uses tint
func NewTextLogger(output io.Writer, level Level, colored bool) *SlogLogger {
	if output == nil {
		output = os.Stderr
	}

	return NewSlogLogger(tint.NewHandler(output, &tint.Options{
		Level:       level.slogLevel(),
		TimeFormat:  time.Kitchen,
		AddSource:   true,
		NoColor:     !colored,
		ReplaceAttr: renameLevel,
	}))
}

// New builds a logger for the given format ("json" or "text")
func New(format string, output io.Writer, level Level) (*SlogLogger, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return NewJSONLogger(output, level), nil
	case "text":
		return NewTextLogger(output, level, true), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// renameAttrs keeps the timestamp/level/message keys stable for log shippers
func renameAttrs(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.MessageKey:
		a.Key = "message"
	}

	return renameLevel(groups, a)
}

func renameLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= slogFatal {
			a.Value = slog.StringValue(string(FatalLevel))
		}
	}
	return a
}

// WithField returns a new logger with the field added to the log context
func (l *SlogLogger) WithField(key string, value interface{}) Logger {
	return &SlogLogger{
		handler: l.handler.WithAttrs([]slog.Attr{slog.Any(key, value)}),
		exit:    l.exit,
	}
}

// WithFields returns a new logger with the fields added to the log context
func (l *SlogLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}

	return &SlogLogger{
		handler: l.handler.WithAttrs(toAttrs(fields)),
		exit:    l.exit,
	}
}

// Debug logs a message at debug level
func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, msg, fields)
}

// Info logs a message at info level
func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, msg, fields)
}

// Warn logs a message at warn level
func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, msg, fields)
}

// Error logs a message at error level
func (l *SlogLogger) Error(msg string, fields map[string]interface{}) {
	l.log(slog.LevelError, msg, fields)
}

// Fatal logs a message at fatal level and then terminates the program
func (l *SlogLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(slogFatal, msg, fields)
	l.exit(1)
}

// log builds the record itself so the reported source is the caller of
// Debug/Info/..., not this file.
func (l *SlogLogger) log(level slog.Level, msg string, fields map[string]interface{}) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, log, and the level method

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.AddAttrs(toAttrs(fields)...)

	if err := l.handler.Handle(ctx, record); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log entry: %s\n", err)
	}
}

// toAttrs converts a field map into attributes sorted by key
func toAttrs(fields map[string]interface{}) []slog.Attr {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// Default logger instances
var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)
)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Debug Global logger functions
func Debug(msg string, fields map[string]interface{}) {
	GetDefaultLogger().Debug(msg, fields)
}

func Info(msg string, fields map[string]interface{}) {
	GetDefaultLogger().Info(msg, fields)
}

func Warn(msg string, fields map[string]interface{}) {
	GetDefaultLogger().Warn(msg, fields)
}

func Error(msg string, fields map[string]interface{}) {
	GetDefaultLogger().Error(msg, fields)
}

func Fatal(msg string, fields map[string]interface{}) {
	GetDefaultLogger().Fatal(msg, fields)
}
