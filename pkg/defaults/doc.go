// Package defaults provides centralized configuration constants for logbundle.
//
// This package defines timeout values, buffer sizes, and file permissions used
// across the codebase. Paths and filenames belong to pkg/config instead, since
// they are overridable per board.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/zbs3d/logbundle/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CommandTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - External commands: 60s each, respects parent context deadline
//   - systemd D-Bus queries: 10s for the whole unit list
package defaults
