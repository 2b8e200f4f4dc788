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

package bundler

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/zbs3d/logbundle/pkg/archive"
	"github.com/zbs3d/logbundle/pkg/collector"
	"github.com/zbs3d/logbundle/pkg/collector/debug"
	"github.com/zbs3d/logbundle/pkg/config"
	"github.com/zbs3d/logbundle/pkg/errors"
	"github.com/zbs3d/logbundle/pkg/identity"
	"github.com/zbs3d/logbundle/pkg/mount"
	"github.com/zbs3d/logbundle/pkg/workspace"
)

// ErrNoDevice is returned by Run when no removable volume qualifies.
var ErrNoDevice = errors.New(errors.ErrCodeNotFound, "USB drive is not connected or not mounted")

// Bundler produces a diagnostic bundle on removable storage: it locates the
// volume, stages artifacts in a workspace, archives them and moves the
// archive onto the volume. Steps run sequentially.
type Bundler struct {
	// Config holds every path and command. If nil, config.Default() is used.
	Config *config.Config

	// Lister enumerates mounted volumes. If nil, the gopsutil lister with a
	// mount table fallback is used.
	Lister mount.VolumeLister

	// Serial resolves the device serial number. If nil, the printer
	// configuration is read.
	Serial debug.SerialSource

	// Factory is the collector factory to use. If nil, the default factory is used.
	Factory collector.Factory

	// Clock returns the current time. If nil, time.Now is used.
	Clock func() time.Time

	// Metrics receives run metrics. If nil, a fresh set is created per run.
	Metrics *Metrics
}

func (b *Bundler) init() {
	if b.Config == nil {
		b.Config = config.Default()
	}
	if b.Lister == nil {
		b.Lister = mount.NewDefaultLister(b.Config.Mount.ProcMounts)
	}
	if b.Serial == nil {
		b.Serial = identity.NewResolver(b.Config)
	}
	if b.Factory == nil {
		b.Factory = collector.NewDefaultFactory(b.Config, collector.WithSerialSource(b.Serial))
	}
	if b.Clock == nil {
		b.Clock = time.Now
	}
	if b.Metrics == nil {
		b.Metrics = NewMetrics()
	}
}

// Run executes one collection. The returned report is never nil and holds
// whatever was done before a failure. When no volume qualifies the error is
// ErrNoDevice and nothing is written. On any later failure the workspace is
// left on disk.
func (b *Bundler) Run(ctx context.Context) (*Report, error) {
	b.init()

	r := &Report{
		RunID:     uuid.New().String(),
		StartedAt: b.Clock(),
	}
	log := slog.With("run", r.RunID)

	err := b.run(ctx, log, r)
	r.Duration = b.Clock().Sub(r.StartedAt)

	outcome := OutcomeSuccess
	switch {
	case stderrors.Is(err, ErrNoDevice):
		outcome = OutcomeNoDevice
	case err != nil:
		outcome = OutcomeError
	}
	b.Metrics.observeRun(outcome, r)
	b.writeMetrics(log)

	if outcome == OutcomeNoDevice {
		return r, err
	}
	if err != nil {
		log.Error("bundle run failed", "error", err)
		return r, err
	}

	log.Info("bundle run complete",
		"archive", r.Archive,
		"size", r.ArchiveSize,
		"duration", r.Duration)
	return r, nil
}

func (b *Bundler) run(ctx context.Context, log *slog.Logger, r *Report) error {
	mnt, ok, err := mount.Locate(ctx, b.Lister, mount.CriteriaFrom(b.Config.Mount))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to locate removable volume", err)
	}
	if !ok {
		log.Info("no removable volume found")
		return ErrNoDevice
	}
	r.MountPoint = mnt

	r.Serial = b.Serial.Resolve(ctx)
	log.Info("starting bundle", "serial", r.Serial, "mountpoint", mnt)

	ws, err := workspace.Create(b.Config.WorkspaceBase, r.Serial, b.Clock())
	if err != nil {
		return err
	}
	r.Workspace = ws

	for _, c := range b.Factory.Collectors() {
		start := time.Now()
		results, err := c.Collect(ctx, ws)
		b.Metrics.observeCollector(c.Name(), time.Since(start))
		r.Results = append(r.Results, results...)
		if err != nil {
			return fmt.Errorf("%s collector failed: %w", c.Name(), err)
		}
		for _, res := range results {
			log.Debug("collected",
				"collector", res.Collector,
				"name", res.Name,
				"status", res.Status,
				"reason", res.Reason)
		}
	}

	local, err := archive.Create(ctx, ws)
	if err != nil {
		return err
	}

	dst, err := archive.Relocate(local, mnt, b.Config.CheckFreeSpace)
	if err != nil {
		return err
	}
	r.Archive = dst

	fi, err := os.Stat(dst)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to stat %s", dst), err)
	}
	r.ArchiveSize = fi.Size()

	if b.Config.Checksum {
		sum, err := archive.WriteChecksum(ctx, dst)
		if err != nil {
			log.Warn("failed to write checksum", "archive", dst, "error", err)
		} else {
			r.Checksum = sum
		}
	}

	return archive.Cleanup(ws)
}

func (b *Bundler) writeMetrics(log *slog.Logger) {
	path := b.Config.MetricsFile
	if path == "" {
		return
	}
	if err := b.Metrics.WriteToTextfile(path); err != nil {
		log.Warn("failed to write metrics", "path", path, "error", err)
	}
}
