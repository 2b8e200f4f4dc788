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

package runnertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zbs3d/logbundle/pkg/runner"
)

// Fake is a runner.Runner returning canned output keyed by the full command
// line ("df -h"). Unknown commands fail as if the binary were missing.
type Fake struct {
	mu      sync.Mutex
	Outputs map[string]runner.Output
	Calls   []string
}

// NewFake returns a Fake with the given canned outputs.
func NewFake(outputs map[string]runner.Output) *Fake {
	if outputs == nil {
		outputs = map[string]runner.Output{}
	}
	return &Fake{Outputs: outputs}
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, name string, args ...string) runner.Output {
	line := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, line)

	if out, ok := f.Outputs[line]; ok {
		return out
	}
	return runner.Output{ExitCode: -1, Err: fmt.Errorf("exec: %q: executable file not found in $PATH", name)}
}

// Stdout is shorthand for a successful output.
func Stdout(s string) runner.Output {
	return runner.Output{Stdout: s}
}
