// File: logger.go
// Title: Structured Logger Implementation
// Description: Implements the Logger type used throughout glox. Loggers are
//              cheap to derive: WithField, WithFields, WithName and
//              WithCorrelationID return a copy that shares the output and
//              formatter of the parent.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2026-10-16 v0.2.0: Removed async writer and user context

package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	mdwerror "github.com/msto63/glox/foundation/core/error"
)

// Config holds logger configuration
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// DefaultConfig returns a configuration writing text to stderr
func DefaultConfig() Config {
	return Config{
		Level:  DefaultLevel(),
		Format: FormatText,
		Output: os.Stderr,
	}
}

// Logger is a structured, leveled logger
type Logger struct {
	level         Level
	formatter     Formatter
	output        io.Writer
	name          string
	contextFields Fields
	correlationID string
	mu            *sync.Mutex
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// New creates a logger with the default configuration
func New() *Logger {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a logger from the given configuration
func NewWithConfig(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	return &Logger{
		level:         config.Level,
		formatter:     GetFormatter(config.Format),
		output:        output,
		name:          config.Name,
		contextFields: make(Fields),
		mu:            &sync.Mutex{},
	}
}

// Discard returns a logger that drops every entry
func Discard() *Logger {
	return NewWithConfig(Config{Level: LevelError + 1, Output: io.Discard})
}

// GetDefault returns the process-wide default logger
func GetDefault() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New()
	}
	return defaultLogger
}

// SetDefault replaces the process-wide default logger
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

func (l *Logger) clone() *Logger {
	fields := make(Fields, len(l.contextFields))
	for k, v := range l.contextFields {
		fields[k] = v
	}
	return &Logger{
		level:         l.level,
		formatter:     l.formatter,
		output:        l.output,
		name:          l.name,
		contextFields: fields,
		correlationID: l.correlationID,
		mu:            l.mu,
	}
}

// WithField returns a logger that adds key=value to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	c := l.clone()
	c.contextFields[key] = value
	return c
}

// WithFields returns a logger that adds all fields to every entry
func (l *Logger) WithFields(fields Fields) *Logger {
	c := l.clone()
	for k, v := range fields {
		c.contextFields[k] = v
	}
	return c
}

// WithName returns a logger with a different component name
func (l *Logger) WithName(name string) *Logger {
	c := l.clone()
	c.name = name
	return c
}

// WithLevel returns a logger with a different minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	c := l.clone()
	c.level = level
	return c
}

// WithCorrelationID returns a logger tagging entries with the given ID
func (l *Logger) WithCorrelationID(id string) *Logger {
	c := l.clone()
	c.correlationID = id
	return c
}

// SetLevel changes the minimum level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// GetLevel returns the minimum level
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetFormat changes the formatter
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	l.formatter = GetFormatter(format)
	l.mu.Unlock()
}

// SetOutput changes the destination writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.output = w
	l.mu.Unlock()
}

// IsLevelEnabled reports whether entries at level would be written
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.GetLevel())
}

// Trace logs at trace level
func (l *Logger) Trace(msg string, fields ...Fields) {
	l.log(LevelTrace, msg, nil, 0, fields...)
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(LevelDebug, msg, nil, 0, fields...)
}

// Info logs at info level
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(LevelInfo, msg, nil, 0, fields...)
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(LevelWarn, msg, nil, 0, fields...)
}

// Error logs at error level
func (l *Logger) Error(msg string, fields ...Fields) {
	l.log(LevelError, msg, nil, 0, fields...)
}

// Debugf logs a formatted message at debug level
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...), nil, 0)
}

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...), nil, 0)
}

// ErrorWithErr logs msg at error level with err attached
func (l *Logger) ErrorWithErr(msg string, err error, fields ...Fields) {
	l.log(LevelError, msg, err, 0, fields...)
}

// LogError logs err at a level derived from its severity.
// Low severity errors are user mistakes and go to debug.
func (l *Logger) LogError(err error, msg string, fields ...Fields) {
	if err == nil {
		return
	}

	level := LevelError
	var e *mdwerror.Error
	if errors.As(err, &e) {
		switch e.Severity() {
		case mdwerror.SeverityLow:
			level = LevelDebug
		case mdwerror.SeverityMedium:
			level = LevelWarn
		}
		extra := Fields{"code": e.Code().String()}
		if op := e.Operation(); op != "" {
			extra["operation"] = op
		}
		fields = append(fields, extra)
	}

	l.log(level, msg, err, 0, fields...)
}

func (l *Logger) log(level Level, msg string, err error, d time.Duration, fields ...Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !level.ShouldLog(l.level) {
		return
	}

	entry := NewEntry(level, msg)
	entry.Logger = l.name
	entry.CorrelationID = l.correlationID
	entry.Error = err
	entry.Duration = d
	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			entry.Fields[k] = v
		}
	}

	out, ferr := l.formatter.Format(entry)
	if ferr != nil {
		fmt.Fprintf(os.Stderr, "log: format failed: %v\n", ferr)
		return
	}
	_, _ = l.output.Write(out)
}
