/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/zbs3d/logbundle/pkg/bundler"
	"github.com/zbs3d/logbundle/pkg/config"
	"github.com/zbs3d/logbundle/pkg/errors"
	"github.com/zbs3d/logbundle/pkg/mount"
	"github.com/zbs3d/logbundle/pkg/serializer"
)

// newBundler is replaced in tests.
var newBundler = func(cfg *config.Config) *bundler.Bundler {
	return &bundler.Bundler{
		Config: cfg,
		Lister: mount.NewDefaultLister(cfg.Mount.ProcMounts),
	}
}

func collectCmd(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Collect diagnostics and write the archive to the USB drive",
		Description: `Locates the USB drive mounted under the gcodes directory, stages the
printer logs, dmesg.log and debug.log in a workspace named after the
serial number, archives it and moves the archive onto the drive.

The workspace is removed once the archive is on the drive. When anything
fails after the drive was found, the workspace is kept for inspection.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "write run metrics in Prometheus text format to this file",
				Sources: cli.EnvVars(envPrefix + "METRICS_FILE"),
			},
			&cli.BoolFlag{
				Name:  "no-checksum",
				Usage: "do not write the .sha256 file next to the archive",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "write the run report to this file",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: fmt.Sprintf("run report format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
				Value: string(serializer.FormatJSON),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if v := cmd.String("metrics-file"); v != "" {
				cfg.MetricsFile = v
			}
			if cmd.Bool("no-checksum") {
				cfg.Checksum = false
			}

			reportPath := cmd.String("report")
			var format serializer.Format
			if reportPath != "" {
				if format, err = serializer.ParseFormat(cmd.String("format")); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid --format", err)
				}
			}

			r, err := newBundler(cfg).Run(ctx)
			if reportPath != "" {
				writeReport(ctx, format, reportPath, r)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, msgSuccess, r.Summary())
			return nil
		},
	}
}

// writeReport saves the run report. It runs after failed runs too, so a
// write error is only logged.
func writeReport(ctx context.Context, format serializer.Format, path string, r *bundler.Report) {
	w, err := serializer.NewFileWriter(format, path)
	if err != nil {
		slog.Warn("failed to write run report", "path", path, "error", err)
		return
	}
	defer w.Close()

	if err := w.Serialize(ctx, r); err != nil {
		slog.Warn("failed to write run report", "path", path, "error", err)
	}
}
