// Package config centralizes the paths, filenames and commands used by a
// collection run.
//
// Default returns the layout of a stock board (printer data under
// /home/pi/printer_data, removable media mounted below gcodes/). Load overlays
// an optional YAML file so every path can be substituted without touching
// workflow logic:
//
//	workspace_base: /tmp/staging
//	log_files:
//	  - /var/log/klippy.log
//	mount:
//	  base_dir: /media/
//	command_timeout: 30s
package config
