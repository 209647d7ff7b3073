// Package error provides structured error handling for glox infrastructure code.
//
// Package: error
// Title: Structured Errors
// Description: Errors with a code, severity, operation name and details. Used by
//              configuration loading, the history store and the evaluation
//              server. Lox syntax and runtime diagnostics are not errors of this
//              kind; they travel through the report package.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Usage:
//
//	import mdwerror "github.com/msto63/glox/foundation/core/error"
//
//	err := mdwerror.Wrap(ioErr, "failed to open history database").
//		WithCode(mdwerror.CodeDatabaseError).
//		WithOperation("history.Open")
package error
