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

package bundler

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zbs3d/logbundle/pkg/artifact"
)

// Report describes one collection run.
type Report struct {
	// RunID identifies the run in logs and metrics.
	RunID string `json:"runId" yaml:"runId"`

	// Serial is the device serial number used to name the workspace.
	Serial string `json:"serial,omitempty" yaml:"serial,omitempty"`

	// MountPoint is the removable volume the archive was moved to.
	MountPoint string `json:"mountPoint,omitempty" yaml:"mountPoint,omitempty"`

	// Workspace is the staging directory. It is removed after a successful run.
	Workspace string `json:"workspace,omitempty" yaml:"workspace,omitempty"`

	// Archive is the final archive path on the removable volume.
	Archive     string `json:"archive,omitempty" yaml:"archive,omitempty"`
	ArchiveSize int64  `json:"archiveSize,omitempty" yaml:"archiveSize,omitempty"`

	// Checksum is the sidecar path, empty when disabled or not written.
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`

	Results []artifact.Result `json:"results,omitempty" yaml:"results,omitempty"`

	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Summary returns the archive path with its human-readable size.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s (%s)", r.Archive, humanize.Bytes(uint64(r.ArchiveSize)))
}

// TableHeader implements serializer.Tabular.
func (r *Report) TableHeader() []string {
	return []string{"COLLECTOR", "NAME", "STATUS", "DETAIL"}
}

// TableRows implements serializer.Tabular with one row per result.
func (r *Report) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		detail := res.Reason
		if detail == "" {
			detail = res.Path
		}
		rows = append(rows, []string{res.Collector, res.Name, string(res.Status), detail})
	}
	return rows
}
