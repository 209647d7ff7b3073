// ============================================================================
// glox - Lox expression front end
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	mdwlog "github.com/msto63/glox/foundation/core/log"
)

var (
	defaultConfig   = DefaultLoggerConfig("")
	defaultConfigMu sync.RWMutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "console" (default: text)
	Format string

	// Output writer (default: os.Stderr)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "warn",
		Format:      "text",
	}
}

// Configure sets the level and format used by New and NewSimpleLogger.
// The CLI calls it once after loading the configuration file.
func Configure(level, format string) {
	defaultConfigMu.Lock()
	defaultConfig.Level = level
	defaultConfig.Format = format
	defaultConfigMu.Unlock()
}

// NewLogger creates a new foundation logger from cfg
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mdwlog.LevelInfo
	}

	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatText
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with the process-wide defaults
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	defaultConfigMu.RLock()
	cfg := defaultConfig
	defaultConfigMu.RUnlock()
	cfg.ServiceName = serviceName
	return NewLogger(cfg)
}
