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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbs3d/logbundle/pkg/archive"
	"github.com/zbs3d/logbundle/pkg/artifact"
	"github.com/zbs3d/logbundle/pkg/collector"
	"github.com/zbs3d/logbundle/pkg/config"
	cerrors "github.com/zbs3d/logbundle/pkg/errors"
	"github.com/zbs3d/logbundle/pkg/mount"
	"github.com/zbs3d/logbundle/pkg/runner"
	"github.com/zbs3d/logbundle/pkg/runner/runnertest"
)

var testNow = time.Date(2026, time.October, 17, 10, 15, 0, 0, time.UTC)

type fakeLister struct {
	parts []mount.Partition
	err   error
}

func (f fakeLister) Partitions(context.Context) ([]mount.Partition, error) {
	return f.parts, f.err
}

type env struct {
	cfg    *config.Config
	usb    string
	runner *runnertest.Fake
	lister fakeLister
}

// newEnv lays out a printer board under a temp dir with a USB stick mounted
// at gcodes/USB and only klippy.log present.
func newEnv(t *testing.T, serialLine string) *env {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.WorkspaceBase = filepath.Join(base, "home")
	cfg.PrinterConfig = filepath.Join(base, "config", "printer.cfg")
	cfg.Mount.BaseDir = filepath.Join(base, "gcodes") + "/"
	for i, p := range cfg.LogFiles {
		cfg.LogFiles[i] = filepath.Join(base, "logs", filepath.Base(p))
	}
	for i := range cfg.Report {
		if cfg.Report[i].Walk != "" {
			cfg.Report[i].Walk = filepath.Join(base, "v4l")
		}
	}
	cfg.CheckFreeSpace = false

	require.NoError(t, os.MkdirAll(cfg.WorkspaceBase, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.PrinterConfig), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "logs"), 0o755))
	require.NoError(t, os.WriteFile(cfg.PrinterConfig, []byte("[printer]\nkinematics: corexy\n"+serialLine+"\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.LogFiles[0], []byte("Starting Klippy...\n"), 0o644))

	usb := filepath.Join(base, "gcodes", "USB")
	require.NoError(t, os.MkdirAll(usb, 0o755))

	return &env{
		cfg: cfg,
		usb: usb,
		runner: runnertest.NewFake(map[string]runner.Output{
			"dmesg":    runnertest.Stdout("[    0.000000] Booting Linux on physical CPU 0x0\n"),
			"uname -a": runnertest.Stdout("Linux printer 6.1.21-v8+ aarch64 GNU/Linux\n"),
			"lsusb":    runnertest.Stdout("Bus 001 Device 001: ID 1d6b:0002\n"),
			"df -h":    runnertest.Stdout("/dev/root 29G 5.1G 23G 19% /\n"),
			"free -h":  runnertest.Stdout("Mem: 3.7Gi 412Mi 2.9Gi\n"),
		}),
		lister: fakeLister{parts: []mount.Partition{
			{Device: "/dev/mmcblk0p2", Mountpoint: "/", FSType: "ext4", Opts: []string{"rw", "noatime"}},
			{Device: "/dev/sda1", Mountpoint: usb, FSType: "vfat", Opts: []string{"rw", "relatime"}},
		}},
	}
}

func (e *env) bundler(f collector.Factory) *Bundler {
	if f == nil {
		f = collector.NewDefaultFactory(e.cfg, collector.WithRunner(e.runner))
	}
	return &Bundler{
		Config:  e.cfg,
		Lister:  e.lister,
		Factory: f,
		Clock:   func() time.Time { return testNow },
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_NoDevice(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS123456")
	e.lister = fakeLister{parts: []mount.Partition{
		{Device: "/dev/mmcblk0p2", Mountpoint: "/", Opts: []string{"rw"}},
		{Device: "/dev/sda1", Mountpoint: e.usb, Opts: []string{"ro"}},
	}}

	r, err := e.bundler(nil).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDevice)
	assert.Equal(t, cerrors.ExitNoDevice, cerrors.ExitCode(err))
	require.NotNil(t, r)
	assert.NotEmpty(t, r.RunID)
	assert.Empty(t, r.Workspace)

	assert.Empty(t, dirEntries(t, e.cfg.WorkspaceBase), "nothing may be written")
	assert.Empty(t, dirEntries(t, e.usb))
	assert.Empty(t, e.runner.Calls)
}

func TestRun_SerialNamesWorkspace(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		prefix string
	}{
		{name: "serial present", line: "# S/N: ZBS123456", prefix: "ZBS123456_"},
		{name: "serial missing", line: "# nothing here", prefix: "UNKNOWN_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.line)
			r, err := e.bundler(nil).Run(context.Background())
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(filepath.Base(r.Workspace), tt.prefix), r.Workspace)
			assert.Equal(t, tt.prefix+"17102026_101500", filepath.Base(r.Workspace))
			assert.Equal(t, strings.TrimSuffix(tt.prefix, "_"), r.Serial)
		})
	}
}

func TestRun_Bundle(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS123456")

	r, err := e.bundler(nil).Run(context.Background())
	require.NoError(t, err)

	want := filepath.Join(e.usb, "ZBS123456_17102026_101500.tar.gz")
	assert.Equal(t, want, r.Archive)
	assert.Equal(t, e.usb, r.MountPoint)
	assert.Positive(t, r.ArchiveSize)
	assert.Equal(t, want+".sha256", r.Checksum)
	assert.Contains(t, r.Summary(), want+" (")

	entries, err := archive.List(r.Archive)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, en := range entries {
		names = append(names, en.Name)
	}
	assert.ElementsMatch(t, []string{
		"ZBS123456_17102026_101500/klippy.log",
		"ZBS123456_17102026_101500/dmesg.log",
		"ZBS123456_17102026_101500/debug.log",
	}, names)

	ok, err := archive.VerifyChecksum(r.Archive)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = os.Stat(r.Workspace)
	assert.True(t, os.IsNotExist(err), "workspace must be removed")
	_, err = os.Stat(filepath.Join(e.cfg.WorkspaceBase, "ZBS123456_17102026_101500.tar.gz"))
	assert.True(t, os.IsNotExist(err), "local archive must be moved")

	assert.Equal(t, 3, artifact.Count(r.Results, artifact.StatusSkipped))
	assert.Equal(t, 3, artifact.Count(r.Results, artifact.StatusCollected))
}

func TestRun_ChecksumDisabled(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS1")
	e.cfg.Checksum = false

	r, err := e.bundler(nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, r.Checksum)
	assert.Equal(t, []string{"ZBS1_17102026_101500.tar.gz"}, dirEntries(t, e.usb))
}

// vanishingFactory appends a collector that unmounts the volume mid-run.
type vanishingFactory struct {
	collector.Factory
	mount string
}

type vanishingCollector struct{ mount string }

func (v vanishingCollector) Name() string { return "vanish" }

func (v vanishingCollector) Collect(context.Context, string) ([]artifact.Result, error) {
	return nil, os.RemoveAll(v.mount)
}

func (f vanishingFactory) Collectors() []collector.Collector {
	return append(f.Factory.Collectors(), vanishingCollector{mount: f.mount})
}

func TestRun_MountVanishes(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS123456")
	f := vanishingFactory{
		Factory: collector.NewDefaultFactory(e.cfg, collector.WithRunner(e.runner)),
		mount:   e.usb,
	}

	r, err := e.bundler(f).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeMountVanished, cerrors.CodeOf(err))
	assert.Contains(t, err.Error(), e.usb)
	assert.Equal(t, cerrors.ExitError, cerrors.ExitCode(err))

	fi, statErr := os.Stat(r.Workspace)
	require.NoError(t, statErr, "workspace must survive a failed move")
	assert.True(t, fi.IsDir())
	assert.Empty(t, r.Archive)
}

type failingCollector struct{}

func (failingCollector) Name() string { return "broken" }

func (failingCollector) Collect(context.Context, string) ([]artifact.Result, error) {
	return nil, cerrors.New(cerrors.ErrCodeIO, "disk full")
}

type failingFactory struct{ collector.Factory }

func (f failingFactory) Collectors() []collector.Collector {
	return []collector.Collector{failingCollector{}}
}

func TestRun_CollectorError(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS9")
	r, err := e.bundler(failingFactory{}).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeIO, cerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "broken collector failed")

	_, statErr := os.Stat(r.Workspace)
	assert.NoError(t, statErr)
	assert.Empty(t, dirEntries(t, e.usb))
}

func TestRun_ListerError(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS9")
	e.lister = fakeLister{err: errors.New("permission denied")}

	_, err := e.bundler(nil).Run(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDevice)
	assert.Equal(t, cerrors.ErrCodeInternal, cerrors.CodeOf(err))
	assert.Equal(t, cerrors.ExitError, cerrors.ExitCode(err))
}

func TestRun_MetricsFile(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS123456")
	e.cfg.MetricsFile = filepath.Join(t.TempDir(), "logbundle.prom")

	_, err := e.bundler(nil).Run(context.Background())
	require.NoError(t, err)

	b, err := os.ReadFile(e.cfg.MetricsFile)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, `logbundle_run_total{outcome="success"} 1`)
	assert.Contains(t, text, `logbundle_artifacts{status="skipped"} 3`)
	assert.Contains(t, text, `logbundle_collector_duration_seconds_count{collector="debug"} 1`)
	assert.Contains(t, text, "logbundle_archive_bytes ")
}

func TestRun_MetricsNoDevice(t *testing.T) {
	e := newEnv(t, "# S/N: ZBS123456")
	e.lister = fakeLister{}
	e.cfg.MetricsFile = filepath.Join(t.TempDir(), "logbundle.prom")

	_, err := e.bundler(nil).Run(context.Background())
	require.ErrorIs(t, err, ErrNoDevice)

	b, err := os.ReadFile(e.cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `logbundle_run_total{outcome="no_device"} 1`)
}
