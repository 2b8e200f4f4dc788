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
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// PsutilLister lists physical partitions through gopsutil.
type PsutilLister struct{}

// Partitions implements VolumeLister. gopsutil may return a partial list
// together with an error; both are passed through.
func (PsutilLister) Partitions(ctx context.Context) ([]Partition, error) {
	stats, err := disk.PartitionsWithContext(ctx, false)

	parts := make([]Partition, 0, len(stats))
	for _, s := range stats {
		parts = append(parts, Partition{
			Device:     s.Device,
			Mountpoint: s.Mountpoint,
			FSType:     s.Fstype,
			Opts:       s.Opts,
		})
	}
	return parts, err
}

// ProcMountsLister parses a mount table in /proc/mounts format.
type ProcMountsLister struct {
	Path string
}

// Partitions implements VolumeLister.
func (l ProcMountsLister) Partitions(ctx context.Context) ([]Partition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := l.Path
	if path == "" {
		path = "/proc/mounts"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseMountsFrom(f)
}

func parseMountsFrom(r io.Reader) ([]Partition, error) {
	var parts []Partition
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		parts = append(parts, Partition{
			Device:     decodeMountPath(fields[0]),
			Mountpoint: decodeMountPath(fields[1]),
			FSType:     fields[2],
			Opts:       strings.Split(fields[3], ","),
		})
	}

	return parts, scanner.Err()
}

var mountEscapes = strings.NewReplacer(
	`\040`, " ",
	`\011`, "\t",
	`\012`, "\n",
	`\134`, `\`,
)

// decodeMountPath replaces the octal escapes the kernel uses in mount tables.
func decodeMountPath(s string) string {
	return mountEscapes.Replace(s)
}

// FallbackLister asks Primary first and Secondary when Primary yields nothing.
type FallbackLister struct {
	Primary   VolumeLister
	Secondary VolumeLister
}

// Partitions implements VolumeLister.
func (l FallbackLister) Partitions(ctx context.Context) ([]Partition, error) {
	parts, err := l.Primary.Partitions(ctx)
	if len(parts) > 0 {
		return parts, err
	}
	if err != nil {
		slog.Debug("primary volume lister failed, falling back", "error", err)
	}

	fallback, ferr := l.Secondary.Partitions(ctx)
	if ferr != nil {
		return fallback, errors.Join(err, ferr)
	}
	return fallback, nil
}

// NewDefaultLister returns gopsutil with a /proc/mounts fallback at procMounts.
func NewDefaultLister(procMounts string) VolumeLister {
	return FallbackLister{
		Primary:   PsutilLister{},
		Secondary: ProcMountsLister{Path: procMounts},
	}
}
