// Package logs copies the printer's application log files (klippy,
// moonraker, KlipperScreen, crowsnest) into the staging workspace.
package logs
