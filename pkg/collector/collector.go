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

package collector

import (
	"context"

	"github.com/zbs3d/logbundle/pkg/artifact"
)

// Collector gathers one kind of diagnostic artifact into a workspace
// directory. A returned error means the workspace itself could not be
// written; problems with individual sources are reported as results.
type Collector interface {
	Name() string
	Collect(ctx context.Context, dir string) ([]artifact.Result, error)
}
