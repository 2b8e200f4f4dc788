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

package mount

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/zbs3d/logbundle/pkg/config"
)

// Partition is a single mounted volume.
type Partition struct {
	Device     string
	Mountpoint string
	FSType     string
	Opts       []string
}

// VolumeLister enumerates mounted volumes.
type VolumeLister interface {
	Partitions(ctx context.Context) ([]Partition, error)
}

// Criteria selects the removable volume. All three conditions must hold.
type Criteria struct {
	DevicePrefix   string
	BaseDir        string
	RequiredOption string
}

// CriteriaFrom builds Criteria from the mount section of the configuration.
func CriteriaFrom(c config.MountConfig) Criteria {
	return Criteria{
		DevicePrefix:   c.DevicePrefix,
		BaseDir:        c.BaseDir,
		RequiredOption: c.RequiredOption,
	}
}

// Match reports whether p is a local disk mounted read-write under BaseDir.
func (c Criteria) Match(p Partition) bool {
	return strings.HasPrefix(p.Device, c.DevicePrefix) &&
		strings.HasPrefix(p.Mountpoint, c.BaseDir) &&
		slices.Contains(p.Opts, c.RequiredOption)
}

// statFn is swapped in tests.
var statFn = os.Stat

// Locate returns the mount path of the first partition matching c.
// ok is false when nothing qualifies. A lister error is only returned when
// it produced no partitions at all; entries whose mount path cannot be
// stat'ed (the device went away mid-enumeration) are treated as non-matching.
func Locate(ctx context.Context, lister VolumeLister, c Criteria) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	parts, err := lister.Partitions(ctx)
	if err != nil {
		if len(parts) == 0 {
			return "", false, fmt.Errorf("failed to enumerate mounted volumes: %w", err)
		}
		slog.Warn("partial volume enumeration", "error", err, "count", len(parts))
	}

	for _, p := range parts {
		if !c.Match(p) {
			continue
		}
		if _, err := statFn(p.Mountpoint); err != nil {
			slog.Debug("skipping vanished mount", "mountpoint", p.Mountpoint, "error", err)
			continue
		}
		slog.Debug("found removable volume",
			"device", p.Device,
			"mountpoint", p.Mountpoint,
			"fstype", p.FSType)
		return p.Mountpoint, true, nil
	}

	return "", false, nil
}
