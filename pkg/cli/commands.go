/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/zbs3d/logbundle/pkg/archive"
	"github.com/zbs3d/logbundle/pkg/bundler"
	"github.com/zbs3d/logbundle/pkg/errors"
	"github.com/zbs3d/logbundle/pkg/identity"
	"github.com/zbs3d/logbundle/pkg/mount"
)

func locateCmd(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "locate",
		Usage: "Print the mount point of the USB drive",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			mnt, ok, err := mount.Locate(ctx, newBundler(cfg).Lister, mount.CriteriaFrom(cfg.Mount))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, "failed to locate removable volume", err)
			}
			if !ok {
				return bundler.ErrNoDevice
			}

			fmt.Fprintln(stdout, mnt)
			return nil
		},
	}
}

func serialCmd(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "serial",
		Usage: "Print the printer serial number",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, identity.NewResolver(cfg).Resolve(ctx))
			return nil
		},
	}
}

func inspectCmd(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "List the contents of a bundle archive and verify its checksum",
		ArgsUsage: "<archive>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New(errors.ErrCodeInvalidRequest, "archive path is required")
			}

			entries, err := archive.List(path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Mode, humanize.Bytes(uint64(e.Size)), e.Name)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			verified, err := archive.VerifyChecksum(path)
			if err != nil {
				return err
			}
			if verified {
				fmt.Fprintln(stdout, "checksum: OK")
			} else {
				fmt.Fprintln(stdout, "checksum: not present")
			}
			return nil
		},
	}
}
