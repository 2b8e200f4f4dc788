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

package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zbs3d/logbundle/pkg/defaults"
	"github.com/zbs3d/logbundle/pkg/errors"
)

// TimestampLayout formats the run time as DDMMYYYY_HHMMSS.
const TimestampLayout = "02012006_150405"

// Sanitize replaces every rune outside [A-Za-z0-9_-] with an underscore.
// The result has the same number of runes as s, and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Name returns the workspace directory name for serial at t.
func Name(serial string, t time.Time) string {
	return Sanitize(serial) + "_" + t.Format(TimestampLayout)
}

// Create makes the workspace directory under base and returns its path.
// Missing parents are created and an existing directory is not an error.
func Create(base, serial string, now time.Time) (string, error) {
	dir := filepath.Join(base, Name(serial, now))

	if err := os.MkdirAll(dir, defaults.DirPerm); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to create workspace %s", dir), err,
			map[string]any{"base": base, "serial": serial})
	}

	slog.Debug("workspace created", "path", dir)
	return dir, nil
}
