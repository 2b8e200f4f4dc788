/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/zbs3d/logbundle/pkg/bundler"
	"github.com/zbs3d/logbundle/pkg/config"
	"github.com/zbs3d/logbundle/pkg/errors"
	"github.com/zbs3d/logbundle/pkg/logging"
)

const (
	name           = "logbundle"
	versionDefault = "dev"
	envPrefix      = "LOGBUNDLE_"
)

// Status lines printed on stdout.
const (
	msgSuccess  = "Operation completed successfully: %s\n"
	msgNoDevice = "USB drive is not connected or not mounted\n"
	msgError    = "An error occurred: %s\n"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

const (
	configFlagName   = "config"
	logLevelFlagName = "log-level"
)

// Execute runs the CLI with the process arguments and exits with the
// resulting code. It is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	code := run(ctx, os.Args, os.Stdout)
	cancel()
	os.Exit(code)
}

// run executes the command line and prints the failure status line. It
// returns the process exit code.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	err := newRootCmd(stdout).Run(ctx, args)
	switch {
	case err == nil:
	case stderrors.Is(err, bundler.ErrNoDevice):
		fmt.Fprint(stdout, msgNoDevice)
	default:
		fmt.Fprintf(stdout, msgError, err)
	}
	return errors.ExitCode(err)
}

func newRootCmd(stdout io.Writer) *cli.Command {
	collect := collectCmd(stdout)

	return &cli.Command{
		Name:                  name,
		Usage:                 "Bundle printer diagnostics onto a USB drive",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Writer:                stdout,
		Description: `Collects the printer logs, the kernel ring buffer and a system report
into a timestamped tar.gz archive on the mounted USB drive.

Running without a command is the same as "logbundle collect".

Exit codes:
  0  bundle written
  1  no USB drive is connected or mounted
  2  any other error`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlagName,
				Aliases: []string{"c"},
				Usage:   "YAML file overriding the built-in paths and commands",
				Sources: cli.EnvVars(envPrefix + "CONFIG"),
			},
			&cli.StringFlag{
				Name:    logLevelFlagName,
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars(envPrefix+"LOG_LEVEL", logging.EnvLogLevel),
			},
		},
		Before:   initLogger,
		Action:   collect.Action,
		Commands: []*cli.Command{collect, locateCmd(stdout), serialCmd(stdout), inspectCmd(stdout)},
	}
}

// initLogger configures slog after flags are parsed so --log-level takes
// effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String(logLevelFlagName)
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
	return ctx, nil
}

// loadConfig returns the defaults overlaid with the --config file.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String(configFlagName)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}
	return cfg, nil
}
