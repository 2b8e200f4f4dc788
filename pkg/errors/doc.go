// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeMountVanished,
//	    "mount point disappeared before relocation",
//	    statErr,
//	    map[string]any{
//	        "mountpoint": "/home/pi/printer_data/gcodes/USB",
//	    },
//	)
//
// ExitCode maps any error in a StructuredError chain to the CLI exit codes:
// 0 on success, 1 when no removable device is connected, 2 otherwise.
package errors
