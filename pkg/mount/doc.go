// Package mount locates the removable volume the diagnostic archive is
// written to.
//
// A volume qualifies when its device node starts with the local-disk prefix
// (/dev/sd), its mount path lies under the printer's gcodes directory, and it
// is mounted read-write. Volumes are enumerated through a VolumeLister so
// tests can substitute a fake mount table.
package mount
