// Package cli implements the command-line interface of logbundle.
//
// # Overview
//
// logbundle gathers printer diagnostics into a single archive on a USB drive
// so they can be handed to support. It is meant to be run from a printer's
// touchscreen macro or over SSH with no arguments.
//
// # Commands
//
// collect - Build the bundle (default when no command is given):
//
//	logbundle collect [--metrics-file FILE] [--no-checksum]
//
// Prints one status line on stdout:
//
//	Operation completed successfully: /home/pi/printer_data/gcodes/USB/ZBS123456_17102026_101500.tar.gz (2.1 MB)
//	USB drive is not connected or not mounted
//	An error occurred: <message>
//
// locate - Print the mount point of the qualifying USB drive.
//
// serial - Print the serial number read from printer.cfg, or UNKNOWN.
//
// inspect - List the entries of an archive and verify its .sha256 file:
//
//	logbundle inspect /path/to/ZBS123456_17102026_101500.tar.gz
//
// # Global Flags
//
//	--config, -c   YAML file overriding paths and commands
//	--log-level    Log level (debug, info, warn, error)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
//	LOGBUNDLE_CONFIG        Same as --config
//	LOGBUNDLE_LOG_LEVEL     Same as --log-level
//	LOG_LEVEL               Fallback log level
//	LOGBUNDLE_METRICS_FILE  Same as collect --metrics-file
//
// Logs are JSON on stderr; stdout only carries the status line and command output.
//
// # Exit Codes
//
//	0  Success
//	1  No USB drive connected or mounted
//	2  Any other error
package cli
