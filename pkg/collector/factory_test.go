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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbs3d/logbundle/pkg/collector/debug"
	"github.com/zbs3d/logbundle/pkg/collector/kernel"
	"github.com/zbs3d/logbundle/pkg/collector/logs"
	"github.com/zbs3d/logbundle/pkg/collector/systemd"
	"github.com/zbs3d/logbundle/pkg/config"
	"github.com/zbs3d/logbundle/pkg/identity"
	"github.com/zbs3d/logbundle/pkg/runner"
	"github.com/zbs3d/logbundle/pkg/runner/runnertest"
)

type staticSerial string

func (s staticSerial) Resolve(context.Context) string { return string(s) }

func names(cs []Collector) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name())
	}
	return out
}

func TestNewDefaultFactory_Defaults(t *testing.T) {
	cfg := config.Default()
	f := NewDefaultFactory(cfg)

	r, ok := f.Runner.(runner.ExecRunner)
	require.True(t, ok)
	assert.Equal(t, cfg.CommandTimeout, r.Timeout)

	res, ok := f.Serial.(*identity.Resolver)
	require.True(t, ok)
	assert.Equal(t, cfg.PrinterConfig, res.Path)
}

func TestDefaultFactory_Collectors(t *testing.T) {
	tests := []struct {
		name     string
		services []string
		want     []string
	}{
		{name: "default", want: []string{logs.Name, kernel.Name, debug.Name}},
		{name: "with services", services: []string{"klipper.service"}, want: []string{logs.Name, kernel.Name, debug.Name, systemd.Name}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Services = tt.services
			f := NewDefaultFactory(cfg, WithRunner(runnertest.NewFake(nil)), WithSerialSource(staticSerial("ZBS1")))
			assert.Equal(t, tt.want, names(f.Collectors()))
		})
	}
}

func TestDefaultFactory_Wiring(t *testing.T) {
	cfg := config.Default()
	cfg.Services = []string{"klipper.service"}
	fake := runnertest.NewFake(nil)
	serial := staticSerial("ZBS1")
	f := NewDefaultFactory(cfg, WithRunner(fake), WithSerialSource(serial))

	l, ok := f.CreateLogsCollector().(*logs.Collector)
	require.True(t, ok)
	assert.Equal(t, cfg.LogFiles, l.Paths)

	k, ok := f.CreateKernelCollector().(*kernel.Collector)
	require.True(t, ok)
	assert.Same(t, fake, k.Runner)
	assert.Equal(t, []string{"dmesg"}, k.Command)
	assert.Equal(t, "dmesg.log", k.FileName)

	d, ok := f.CreateDebugCollector().(*debug.Collector)
	require.True(t, ok)
	assert.Equal(t, serial, d.Serial)
	assert.Equal(t, "debug.log", d.FileName)
	assert.Len(t, d.Sections, 5)

	s, ok := f.CreateSystemDCollector().(*systemd.Collector)
	require.True(t, ok)
	assert.Equal(t, []string{"klipper.service"}, s.Services)
	assert.Equal(t, "services.log", s.FileName)
}
