// Package identity resolves the printer's serial number from a
// "# S/N: ZBS<digits>" comment in printer.cfg, falling back to UNKNOWN.
package identity
