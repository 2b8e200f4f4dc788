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
	"github.com/zbs3d/logbundle/pkg/collector/debug"
	"github.com/zbs3d/logbundle/pkg/collector/kernel"
	"github.com/zbs3d/logbundle/pkg/collector/logs"
	"github.com/zbs3d/logbundle/pkg/collector/systemd"
	"github.com/zbs3d/logbundle/pkg/config"
	"github.com/zbs3d/logbundle/pkg/identity"
	"github.com/zbs3d/logbundle/pkg/runner"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateLogsCollector() Collector
	CreateKernelCollector() Collector
	CreateDebugCollector() Collector
	CreateSystemDCollector() Collector

	// Collectors returns the collectors of a run, in execution order.
	Collectors() []Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	Config *config.Config
	Runner runner.Runner
	Serial debug.SerialSource
}

// Option configures a DefaultFactory.
type Option func(*DefaultFactory)

// WithRunner sets the command runner used by command-backed collectors.
func WithRunner(r runner.Runner) Option {
	return func(f *DefaultFactory) {
		f.Runner = r
	}
}

// WithSerialSource sets where the debug report gets its serial number.
func WithSerialSource(s debug.SerialSource) Option {
	return func(f *DefaultFactory) {
		f.Serial = s
	}
}

// NewDefaultFactory creates a factory for cfg. Without options it runs real
// commands bounded by cfg.CommandTimeout and reads the serial from cfg.PrinterConfig.
func NewDefaultFactory(cfg *config.Config, opts ...Option) *DefaultFactory {
	f := &DefaultFactory{Config: cfg}
	for _, opt := range opts {
		opt(f)
	}
	if f.Runner == nil {
		f.Runner = runner.ExecRunner{Timeout: cfg.CommandTimeout}
	}
	if f.Serial == nil {
		f.Serial = identity.NewResolver(cfg)
	}
	return f
}

// CreateLogsCollector creates the log file copier.
func (f *DefaultFactory) CreateLogsCollector() Collector {
	return &logs.Collector{Paths: f.Config.LogFiles}
}

// CreateKernelCollector creates the kernel ring buffer collector.
func (f *DefaultFactory) CreateKernelCollector() Collector {
	return &kernel.Collector{
		Runner:   f.Runner,
		Command:  f.Config.DmesgCommand,
		FileName: f.Config.DmesgFile,
	}
}

// CreateDebugCollector creates the debug report collector.
func (f *DefaultFactory) CreateDebugCollector() Collector {
	return &debug.Collector{
		Runner:   f.Runner,
		Serial:   f.Serial,
		Sections: f.Config.Report,
		FileName: f.Config.ReportFile,
	}
}

// CreateSystemDCollector creates a systemd collector.
func (f *DefaultFactory) CreateSystemDCollector() Collector {
	return &systemd.Collector{
		Services: f.Config.Services,
		FileName: f.Config.ServicesFile,
	}
}

// Collectors implements Factory. The systemd collector is only included
// when units are configured.
func (f *DefaultFactory) Collectors() []Collector {
	cs := []Collector{
		f.CreateLogsCollector(),
		f.CreateKernelCollector(),
		f.CreateDebugCollector(),
	}
	if len(f.Config.Services) > 0 {
		cs = append(cs, f.CreateSystemDCollector())
	}
	return cs
}
