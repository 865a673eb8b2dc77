// SPDX-License-Identifier: AGPL-3.0-or-later

// Package log provides structured logging for commitcheck.
// Diagnostics go to stderr so reports on stdout stay machine readable.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the process-wide logger.
var Logger = New(os.Stderr, false)

// New creates a text logger writing to w. Verbose enables debug records.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Configure replaces the process-wide logger.
func Configure(w io.Writer, verbose bool) {
	Logger = New(w, verbose)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
