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

package identity

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/zbs3d/logbundle/pkg/config"
	"github.com/zbs3d/logbundle/pkg/file"
)

// Unknown is returned when no serial number can be read.
const Unknown = "UNKNOWN"

// maxConfigSize bounds the printer configuration read into memory.
const maxConfigSize = 8 << 20

// Resolver extracts the device serial number from the printer configuration.
type Resolver struct {
	// Path is the printer configuration file.
	Path string

	// Marker is the literal prefix a line must start with.
	Marker string

	// Pattern extracts the serial; capture group 1 is returned.
	Pattern *regexp.Regexp
}

// NewResolver builds a Resolver from the configuration. The pattern is
// compiled here; Config.Validate has already rejected invalid ones.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		Path:    cfg.PrinterConfig,
		Marker:  cfg.SerialMarker,
		Pattern: regexp.MustCompile(cfg.SerialPattern),
	}
}

// Resolve returns the serial number or Unknown. Read failures are logged and
// never returned, so repeated calls are safe and yield the same result.
func (r *Resolver) Resolve(ctx context.Context) string {
	if err := ctx.Err(); err != nil {
		return Unknown
	}

	p := file.NewParser(
		file.WithSkipComments(false),
		file.WithTrimSpace(false),
		file.WithMaxSize(maxConfigSize),
	)

	serial, err := p.FirstMatch(r.Path, r.Marker, r.Pattern)
	switch {
	case errors.Is(err, file.ErrNoMatch):
		slog.Warn("serial number not found in printer config", "path", r.Path)
		return Unknown
	case err != nil:
		slog.Warn("failed to read printer config", "path", r.Path, "error", err)
		return Unknown
	}

	slog.Debug("resolved serial number", "serial", serial)
	return serial
}
