// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zbs3d/logbundle/pkg/defaults"
	"github.com/zbs3d/logbundle/pkg/errors"
)

// MountConfig describes which mounted volume qualifies as the removable target.
type MountConfig struct {
	// DevicePrefix is the device node prefix of local SCSI/USB disks.
	DevicePrefix string `yaml:"device_prefix"`

	// BaseDir is the directory the removable volume must be mounted under.
	BaseDir string `yaml:"base_dir"`

	// RequiredOption is the mount option that must be present.
	RequiredOption string `yaml:"required_option"`

	// ProcMounts is the mount table read when the partition API returns nothing.
	ProcMounts string `yaml:"proc_mounts"`
}

// ReportSection is one labeled block of debug.log. Exactly one of Command
// or Walk is set.
type ReportSection struct {
	Label   string   `yaml:"label"`
	Command []string `yaml:"command,omitempty"`
	Walk    string   `yaml:"walk,omitempty"`
}

// Config holds every path, filename and command used by a collection run.
type Config struct {
	// WorkspaceBase is the parent directory of the staging workspace.
	WorkspaceBase string `yaml:"workspace_base"`

	// PrinterConfig is the printer configuration file carrying the serial number.
	PrinterConfig string `yaml:"printer_config"`

	// SerialPattern extracts the serial from a matching line; group 1 is the value.
	SerialPattern string `yaml:"serial_pattern"`

	// SerialMarker is the literal prefix a line must start with before the
	// pattern is tried.
	SerialMarker string `yaml:"serial_marker"`

	// LogFiles are copied into the workspace when present.
	LogFiles []string `yaml:"log_files"`

	Mount MountConfig `yaml:"mount"`

	// DmesgCommand is the kernel ring buffer command; its stdout goes to DmesgFile.
	DmesgCommand []string `yaml:"dmesg_command"`
	DmesgFile    string   `yaml:"dmesg_file"`

	// Report lists the debug.log sections after the serial number, in order.
	Report     []ReportSection `yaml:"report"`
	ReportFile string          `yaml:"report_file"`

	// Services are systemd units whose state is written to ServicesFile.
	// Empty disables the collector.
	Services     []string `yaml:"services"`
	ServicesFile string   `yaml:"services_file"`

	// CommandTimeout bounds each external command. Zero disables the bound.
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// Checksum writes a sha256sum-style sidecar next to the relocated archive.
	Checksum bool `yaml:"checksum"`

	// CheckFreeSpace verifies the removable volume can hold the archive before moving it.
	CheckFreeSpace bool `yaml:"check_free_space"`

	// MetricsFile, when set, receives run metrics in Prometheus text format.
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the configuration of a stock printer board.
func Default() *Config {
	const dataDir = "/home/pi/printer_data"
	return &Config{
		WorkspaceBase: "/home/pi",
		PrinterConfig: filepath.Join(dataDir, "config", "printer.cfg"),
		SerialMarker:  "# S/N: ZBS",
		SerialPattern: `^# S/N: (ZBS\d+)`,
		LogFiles: []string{
			filepath.Join(dataDir, "logs", "klippy.log"),
			filepath.Join(dataDir, "logs", "moonraker.log"),
			filepath.Join(dataDir, "logs", "KlipperScreen.log"),
			filepath.Join(dataDir, "logs", "crowsnest.log"),
		},
		Mount: MountConfig{
			DevicePrefix:   "/dev/sd",
			BaseDir:        dataDir + "/gcodes/",
			RequiredOption: "rw",
			ProcMounts:     "/proc/mounts",
		},
		DmesgCommand: []string{"dmesg"},
		DmesgFile:    "dmesg.log",
		Report: []ReportSection{
			{Label: "uname -a", Command: []string{"uname", "-a"}},
			{Label: "lsusb", Command: []string{"lsusb"}},
			{Label: "find /dev/v4l", Walk: "/dev/v4l"},
			{Label: "df -h", Command: []string{"df", "-h"}},
			{Label: "free -h", Command: []string{"free", "-h"}},
		},
		ReportFile:     "debug.log",
		ServicesFile:   "services.log",
		CommandTimeout: defaults.CommandTimeout,
		Checksum:       true,
		CheckFreeSpace: true,
	}
}

// Load returns the default configuration overlaid with the YAML file at path.
// An empty path returns the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("failed to read config %s", path), err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("failed to parse config %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	required := map[string]string{
		"workspace_base":        c.WorkspaceBase,
		"printer_config":        c.PrinterConfig,
		"serial_pattern":        c.SerialPattern,
		"mount.device_prefix":   c.Mount.DevicePrefix,
		"mount.base_dir":        c.Mount.BaseDir,
		"mount.required_option": c.Mount.RequiredOption,
		"dmesg_file":            c.DmesgFile,
		"report_file":           c.ReportFile,
	}
	for key, v := range required {
		if v == "" {
			return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("config value %q must not be empty", key))
		}
	}

	re, err := regexp.Compile(c.SerialPattern)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid serial_pattern", err)
	}
	if re.NumSubexp() < 1 {
		return errors.New(errors.ErrCodeInvalidRequest, "serial_pattern must contain a capture group")
	}

	if len(c.DmesgCommand) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "dmesg_command must not be empty")
	}

	for i, s := range c.Report {
		if s.Label == "" {
			return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("report section %d has no label", i))
		}
		if (len(s.Command) == 0) == (s.Walk == "") {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("report section %q must set exactly one of command or walk", s.Label))
		}
	}

	if len(c.Services) > 0 && c.ServicesFile == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "services_file must be set when services are configured")
	}

	if c.CommandTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "command_timeout must not be negative")
	}

	return nil
}
