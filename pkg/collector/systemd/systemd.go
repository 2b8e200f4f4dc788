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

package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/zbs3d/logbundle/pkg/artifact"
	"github.com/zbs3d/logbundle/pkg/defaults"
)

// Name is the collector name used in results.
const Name = "systemd"

var (
	// Unit properties written below each unit. Everything else is noise for
	// a support bundle.
	keepProperties = []string{
		"ActiveEnterTimestamp",
		"ExecMainStatus",
		"MainPID",
		"NRestarts",
		"Result",
	}

	// newConn is replaced in tests.
	newConn = func(ctx context.Context) (unitConn, error) {
		c, err := dbus.NewSystemdConnectionContext(ctx)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
)

// unitConn is the subset of *dbus.Conn the collector uses.
type unitConn interface {
	ListUnitsByNamesContext(ctx context.Context, units []string) ([]dbus.UnitStatus, error)
	GetUnitPropertiesContext(ctx context.Context, unit string) (map[string]any, error)
	Close()
}

// Collector writes the state of the configured systemd units.
type Collector struct {
	Services []string
	FileName string
}

// Name implements collector.Collector.
func (s *Collector) Name() string { return Name }

// Collect queries systemd over D-Bus and writes one block per unit. An
// unreachable bus is recorded as a failed result, not returned as an error.
func (s *Collector) Collect(ctx context.Context, dir string) ([]artifact.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("collecting systemd unit state", "units", len(s.Services))

	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	conn, err := newConn(ctx)
	if err != nil {
		slog.Warn("systemd unavailable", "error", err)
		return []artifact.Result{artifact.Failed(Name, s.FileName, "", fmt.Errorf("failed to connect to systemd: %w", err))}, nil
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, s.Services)
	if err != nil {
		return []artifact.Result{artifact.Failed(Name, s.FileName, "", fmt.Errorf("failed to list units: %w", err))}, nil
	}

	var (
		b       strings.Builder
		results []artifact.Result
	)
	for _, u := range units {
		if u.LoadState == "not-found" {
			results = append(results, artifact.Skipped(Name, u.Name, "unit not found"))
			continue
		}

		fmt.Fprintf(&b, "%s\n", u.Name)
		fmt.Fprintf(&b, "  description: %s\n", u.Description)
		fmt.Fprintf(&b, "  state: %s/%s/%s\n", u.LoadState, u.ActiveState, u.SubState)

		props, err := conn.GetUnitPropertiesContext(ctx, u.Name)
		if err != nil {
			slog.Warn("failed to read unit properties", "unit", u.Name, "error", err)
			fmt.Fprintf(&b, "  properties: %v\n\n", err)
			results = append(results, artifact.Failed(Name, u.Name, "", err))
			continue
		}
		writeProperties(&b, props)
		b.WriteByte('\n')
	}

	path, err := artifact.WriteFile(dir, s.FileName, []byte(b.String()))
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].Status == artifact.StatusFailed {
			results[i].Path = path
		}
	}

	return append(results, artifact.Collected(Name, s.FileName, path)), nil
}

func writeProperties(b *strings.Builder, props map[string]any) {
	keys := make([]string, 0, len(keepProperties))
	for _, k := range keepProperties {
		if _, ok := props[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %v\n", k, props[k])
	}
}
