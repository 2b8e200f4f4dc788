// Package artifact defines the per-step outcome recorded by collectors.
//
// Every fallible step yields a Result with an explicit status instead of
// swallowing errors: collected (written to the workspace), skipped (source
// absent) or failed (error recorded, partial output kept). Errors returned
// alongside results are reserved for failures that make the workspace
// unusable and abort the run.
package artifact
