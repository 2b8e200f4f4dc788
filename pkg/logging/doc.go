// Package logging provides structured logging utilities for logbundle.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every component logs the same way. Standard output is reserved for the
// single human-readable status line printed at the end of a run; all log
// records go to stderr as JSON.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Skipped or failed collection steps
//   - ERROR: Failures that abort the run
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("logbundle", version)
//	    slog.Info("collecting logs", "workspace", dir)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("logbundle", "v1.0.0", "warn")
//
// # Environment Configuration
//
//	LOG_LEVEL=debug logbundle
//
// If LOG_LEVEL is not set and no --log-level flag is given, defaults to INFO.
package logging
