// Package debug builds debug.log, a human-readable report combining the
// serial number with the output of several diagnostic commands.
//
// The report layout is:
//
//	Serial number: ZBS123456
//
//	uname -a
//	Linux printer 6.1.21-v8+ ...
//
//	lsusb
//	Bus 001 Device 002: ID 2109:3431 VIA Labs, Inc. Hub
//
// with one labeled section per configured entry, in configuration order.
// Sections with a walk path list device nodes natively instead of calling find.
package debug
