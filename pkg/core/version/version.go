// ============================================================================
// glox - Lox expression front end
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and the server
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for glox components
const (
	// Release version
	Platform = "0.3.0"

	// Component versions
	Parser = "0.3.0"
	Server = "0.2.0"
	REPL   = "0.2.0"
)

// Build information, set via -ldflags at build time
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "parser":
		return Parser
	case "server":
		return Server
	case "repl":
		return REPL
	default:
		return Platform
	}
}

// Info returns a one-line description of the build
func Info() string {
	return fmt.Sprintf("glox %s (commit %s, built %s, %s %s/%s)",
		Platform, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
