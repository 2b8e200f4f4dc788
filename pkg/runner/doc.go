// Package runner abstracts external command execution so collectors can be
// tested with canned output instead of real diagnostic tools.
package runner
