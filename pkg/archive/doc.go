// Package archive packs a bundle workspace into a gzip-compressed tarball and
// moves it onto the removable volume.
//
// Create writes <workspace>.tar.gz beside the workspace with one entry per
// file, rooted at the workspace directory name:
//
//	ZBS123456_17102026_101500/klippy.log
//	ZBS123456_17102026_101500/dmesg.log
//	ZBS123456_17102026_101500/debug.log
//
// Relocate moves the archive into the mount point, copying when the rename
// crosses filesystems, and optionally checks free space first with statfs.
// WriteChecksum adds a sha256sum-compatible sidecar beside the moved archive.
// Cleanup removes the workspace once the archive is in place.
package archive
