// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error
//              classification across glox components. Codes drive severity
//              defaults, process exit codes and HTTP status mapping.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-16 v0.2.0: Replaced TCOL codes with Lox codes, added ExitCode

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Database and storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"

	// Service and network
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError       Code = "NETWORK_ERROR"

	// Lox language
	CodeLoxUsage   Code = "LOX_USAGE"
	CodeLoxSyntax  Code = "LOX_SYNTAX"
	CodeLoxRuntime Code = "LOX_RUNTIME"
	CodeLoxIO      Code = "LOX_IO"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInvalidLength    Code = "INVALID_LENGTH"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeDatabaseError, CodeConnectionFailed:
		return "database"
	case CodeServiceUnavailable, CodeNetworkError:
		return "service"
	case CodeLoxUsage, CodeLoxSyntax, CodeLoxRuntime, CodeLoxIO:
		return "lox"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeInvalidLength:
		return "validation"
	default:
		return "generic"
	}
}

// HTTPStatus returns the HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeInvalidInput, CodeValidationFailed, CodeInvalidLength, CodeLoxSyntax, CodeLoxRuntime:
		return 400
	case CodeTimeout:
		return 408
	case CodeServiceUnavailable, CodeDatabaseError, CodeConnectionFailed:
		return 503
	default:
		return 500
	}
}

// ExitCode returns the sysexits(3) style process exit code used by the driver
func (c Code) ExitCode() int {
	switch c {
	case CodeLoxUsage:
		return 64 // EX_USAGE
	case CodeLoxSyntax, CodeInvalidLength:
		return 65 // EX_DATAERR
	case CodeLoxRuntime:
		return 70 // EX_SOFTWARE
	case CodeLoxIO:
		return 74 // EX_IOERR
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return 78 // EX_CONFIG
	default:
		return 1
	}
}

// GetSeverityFromCode returns the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeLoxSyntax, CodeLoxRuntime, CodeLoxUsage, CodeInvalidInput,
		CodeValidationFailed, CodeInvalidLength, CodeNotFound:
		return SeverityLow
	case CodeDatabaseError, CodeConnectionFailed, CodeServiceUnavailable, CodeInternal:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
