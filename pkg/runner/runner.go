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

package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/zbs3d/logbundle/pkg/errors"
)

const waitDelay = 2 * time.Second

// Output is the captured result of one command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// OK reports whether the command started and exited zero.
func (o Output) OK() bool {
	return o.Err == nil
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Output
}

// ExecRunner runs commands with os/exec. Timeout, when positive, bounds
// each command.
type ExecRunner struct {
	Timeout time.Duration
}

// Run implements Runner. Output already produced is returned even when the
// command fails.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) Output {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// children that inherit the pipes must not hold Run open after a kill
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()

	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
		}

		cmdline := strings.Join(append([]string{name}, args...), " ")
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Err = errors.WrapWithContext(errors.ErrCodeTimeout,
				fmt.Sprintf("command %q timed out", cmdline), err,
				map[string]any{"timeout": r.Timeout.String()})
		} else {
			out.Err = fmt.Errorf("command %q failed: %w", cmdline, err)
		}
	}

	slog.Debug("command finished",
		"command", name,
		"args", args,
		"exit_code", out.ExitCode,
		"duration", time.Since(start).String(),
		"stdout_bytes", len(out.Stdout))

	return out
}
