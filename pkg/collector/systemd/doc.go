// Package systemd writes the state of selected systemd units to the bundle.
//
// Units are queried over D-Bus with github.com/coreos/go-systemd. For each
// unit the load, active and sub state are written, followed by a small set
// of properties such as MainPID and NRestarts:
//
//	klipper.service
//	  description: Klipper 3D Printer Firmware SV1
//	  state: loaded/active/running
//	  MainPID: 812
//	  NRestarts: 0
//
// Units systemd does not know are reported as skipped. When the system bus is
// unreachable the collector records a failed result and the bundle is still
// produced.
package systemd
