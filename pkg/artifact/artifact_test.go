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

package artifact

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbs3d/logbundle/pkg/errors"
)

func TestConstructors(t *testing.T) {
	c := Collected("logs", "/var/log/a.log", "/ws/a.log")
	assert.Equal(t, StatusCollected, c.Status)
	assert.Equal(t, "/ws/a.log", c.Path)
	assert.Empty(t, c.Reason)

	s := Skipped("logs", "/var/log/b.log", "not present")
	assert.Equal(t, StatusSkipped, s.Status)
	assert.Empty(t, s.Path)
	assert.Equal(t, "not present", s.Reason)

	f := Failed("debug", "lsusb", "/ws/debug.log", stderrors.New("exit status 1"))
	assert.Equal(t, StatusFailed, f.Status)
	assert.Equal(t, "exit status 1", f.Reason)

	assert.Empty(t, Failed("debug", "x", "", nil).Reason)
}

func TestCount(t *testing.T) {
	results := []Result{
		Collected("logs", "a", "a"),
		Skipped("logs", "b", "missing"),
		Skipped("logs", "c", "missing"),
		Failed("kernel", "dmesg", "d", nil),
	}
	assert.Equal(t, 1, Count(results, StatusCollected))
	assert.Equal(t, 2, Count(results, StatusSkipped))
	assert.Equal(t, 1, Count(results, StatusFailed))
	assert.Zero(t, Count(nil, StatusFailed))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, "dmesg.log", []byte("boot\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dmesg.log"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "boot\n", string(b))

	_, err = WriteFile(filepath.Join(dir, "missing"), "x.log", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIO, errors.CodeOf(err))
}
