// Package kernel writes the output of dmesg into the workspace as dmesg.log.
package kernel
