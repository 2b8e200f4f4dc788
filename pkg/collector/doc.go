// Package collector defines how diagnostic artifacts are gathered into a
// bundle workspace.
//
// Each collector writes into the workspace directory it is given and returns
// one artifact.Result per source it handled. Sources that are absent are
// reported as skipped; sources that fail are reported as failed and the run
// continues. Only a failure to write into the workspace is returned as an
// error.
//
// # Factory Pattern
//
// The Factory interface enables dependency injection and testing by
// abstracting collector creation:
//
//	factory := collector.NewDefaultFactory(cfg,
//	    collector.WithRunner(runner.ExecRunner{Timeout: time.Minute}),
//	)
//	for _, c := range factory.Collectors() {
//	    results, err := c.Collect(ctx, workspace)
//	    ...
//	}
//
// # Available Collectors
//
// Logs (logs): copies the printer log files, keeping mode and mtime.
//
// Kernel (kernel): writes the kernel ring buffer to dmesg.log.
//
// Debug (debug): writes debug.log with the serial number and the output of
// uname, lsusb, df and free plus a listing of /dev/v4l.
//
// SystemD (systemd): writes the state of configured units to services.log.
// Disabled unless units are configured.
//
// Collectors run sequentially in that order.
package collector
