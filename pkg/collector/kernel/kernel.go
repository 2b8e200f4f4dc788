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

package kernel

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zbs3d/logbundle/pkg/artifact"
	"github.com/zbs3d/logbundle/pkg/runner"
)

// Name is the collector name used in results.
const Name = "kernel"

// Collector captures the kernel ring buffer.
type Collector struct {
	Runner   runner.Runner
	Command  []string
	FileName string
}

// Name implements collector.Collector.
func (c *Collector) Name() string { return Name }

// Collect runs the dmesg command and writes its stdout verbatim. A failing
// command is recorded but whatever it printed is still written.
func (c *Collector) Collect(ctx context.Context, dir string) ([]artifact.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	step := strings.Join(c.Command, " ")
	slog.Info("capturing kernel ring buffer", "command", step)

	out := c.Runner.Run(ctx, c.Command[0], c.Command[1:]...)

	path, err := artifact.WriteFile(dir, c.FileName, []byte(out.Stdout))
	if err != nil {
		return nil, err
	}

	if !out.OK() {
		slog.Warn("kernel ring buffer command failed",
			"command", step,
			"exit_code", out.ExitCode,
			"stderr", strings.TrimSpace(out.Stderr),
			"error", out.Err)
		return []artifact.Result{artifact.Failed(Name, step, path, out.Err)}, nil
	}

	return []artifact.Result{artifact.Collected(Name, step, path)}, nil
}
