// Package workspace creates the per-run staging directory
// <sanitized-serial>_<DDMMYYYY_HHMMSS> that collectors write into.
package workspace
