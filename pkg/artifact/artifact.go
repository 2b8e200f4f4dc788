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
	"fmt"
	"os"
	"path/filepath"

	"github.com/zbs3d/logbundle/pkg/defaults"
	"github.com/zbs3d/logbundle/pkg/errors"
)

// Status is the outcome of one collection step.
type Status string

const (
	// StatusCollected means the artifact was written to the workspace.
	StatusCollected Status = "collected"
	// StatusSkipped means the source was absent; this is not a failure.
	StatusSkipped Status = "skipped"
	// StatusFailed means the step ran into an error. Any partial output is
	// still in the workspace when Path is set.
	StatusFailed Status = "failed"
)

// Result records what a single collection step produced.
type Result struct {
	// Collector is the name of the collector that produced the result.
	Collector string `json:"collector" yaml:"collector"`

	// Name identifies the step, e.g. a source log path or a report section.
	Name string `json:"name" yaml:"name"`

	Status Status `json:"status" yaml:"status"`

	// Path is the artifact in the workspace, empty when nothing was written.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Reason explains a skipped or failed step.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Collected returns a successful result for the artifact at path.
func Collected(collector, name, path string) Result {
	return Result{Collector: collector, Name: name, Status: StatusCollected, Path: path}
}

// Skipped returns a result for a step whose source was not present.
func Skipped(collector, name, reason string) Result {
	return Result{Collector: collector, Name: name, Status: StatusSkipped, Reason: reason}
}

// Failed returns a result for a step that ran into err. path may be empty.
func Failed(collector, name, path string, err error) Result {
	r := Result{Collector: collector, Name: name, Status: StatusFailed, Path: path}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

// Count returns the number of results with status s.
func Count(results []Result, s Status) int {
	n := 0
	for _, r := range results {
		if r.Status == s {
			n++
		}
	}
	return n
}

// WriteFile writes data to name inside dir and returns the full path.
// A failure here means the workspace itself is unusable.
func WriteFile(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, defaults.FilePerm); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to write %s", path), err)
	}
	return path, nil
}
