// File: doc.go
// Title: String Utilities Package Documentation
// Description: Package documentation for stringx.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16

// Package stringx provides small Unicode-safe string helpers that the
// standard library does not offer directly.
package stringx
