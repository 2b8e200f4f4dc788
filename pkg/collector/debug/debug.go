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

package debug

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/zbs3d/logbundle/pkg/artifact"
	"github.com/zbs3d/logbundle/pkg/config"
	"github.com/zbs3d/logbundle/pkg/runner"
)

// Name is the collector name used in results.
const Name = "debug"

// SerialLabel heads the first section of the report.
const SerialLabel = "Serial number"

// SerialSource resolves the device serial number.
type SerialSource interface {
	Resolve(ctx context.Context) string
}

// Collector writes the composite debug report.
type Collector struct {
	Runner   runner.Runner
	Serial   SerialSource
	Sections []config.ReportSection
	FileName string
}

// Name implements collector.Collector.
func (c *Collector) Name() string { return Name }

// Collect runs every section in order and writes one report file. A failing
// section is recorded and its partial output kept; it never stops the others.
func (c *Collector) Collect(ctx context.Context, dir string) ([]artifact.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("building debug report", "sections", len(c.Sections))

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n\n", SerialLabel, c.Serial.Resolve(ctx))

	type sectionErr struct {
		label string
		err   error
	}
	var failed []sectionErr

	for _, s := range c.Sections {
		out, err := c.runSection(ctx, s)
		if err != nil {
			slog.Warn("debug report section failed", "section", s.Label, "error", err)
			failed = append(failed, sectionErr{label: s.Label, err: err})
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", s.Label, strings.TrimSpace(out))
	}

	path, err := artifact.WriteFile(dir, c.FileName, []byte(b.String()))
	if err != nil {
		return nil, err
	}

	results := make([]artifact.Result, 0, len(failed)+1)
	for _, f := range failed {
		results = append(results, artifact.Failed(Name, f.label, path, f.err))
	}
	results = append(results, artifact.Collected(Name, c.FileName, path))

	return results, nil
}

func (c *Collector) runSection(ctx context.Context, s config.ReportSection) (string, error) {
	if s.Walk != "" {
		return walk(s.Walk)
	}

	out := c.Runner.Run(ctx, s.Command[0], s.Command[1:]...)
	return out.Stdout, out.Err
}

// walk lists root and everything below it, one path per line, the way
// `find root` prints them. Entries that vanish mid-walk are ignored.
func walk(root string) (string, error) {
	var b strings.Builder

	err := filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil
			}
			slog.Debug("walk error", "path", path, "error", err)
			return nil
		}
		b.WriteString(path)
		b.WriteByte('\n')
		return nil
	})

	return b.String(), err
}
