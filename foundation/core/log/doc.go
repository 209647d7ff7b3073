// File: doc.go
// Title: Logging Package Documentation
// Description: Package documentation for the structured logger.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16

// Package log provides leveled, structured logging for glox.
//
// A Logger writes Entry values through a Formatter (JSON, plain text or a
// lipgloss-styled console format). Context is attached by deriving loggers:
//
//	logger := mdwlog.NewWithConfig(mdwlog.Config{
//	    Level:  mdwlog.LevelDebug,
//	    Format: mdwlog.FormatConsole,
//	})
//	p := logger.WithField("component", "lox-parser")
//	p.Debug("parse started", mdwlog.Fields{"tokens": 12})
//
// Errors created with the foundation error package are logged at a level
// derived from their severity by LogError.
package log
