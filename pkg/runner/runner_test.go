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
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zbs3d/logbundle/pkg/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Success(t *testing.T) {
	requireShell(t)

	out := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo hello; echo oops >&2")
	assert.True(t, out.OK())
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Equal(t, "oops\n", out.Stderr)
	assert.Zero(t, out.ExitCode)
}

func TestExecRunner_NonZeroExitKeepsOutput(t *testing.T) {
	requireShell(t)

	out := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo partial; exit 3")
	assert.False(t, out.OK())
	assert.Equal(t, "partial\n", out.Stdout)
	assert.Equal(t, 3, out.ExitCode)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	out := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	assert.False(t, out.OK())
	assert.Equal(t, -1, out.ExitCode)
	assert.Empty(t, out.Stdout)
}

func TestExecRunner_Timeout(t *testing.T) {
	requireShell(t)

	out := ExecRunner{Timeout: 50 * time.Millisecond}.Run(context.Background(), "sh", "-c", "exec sleep 5")
	assert.False(t, out.OK())
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(out.Err))
}
