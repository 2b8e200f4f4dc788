// Package bundler runs the diagnostic bundle workflow.
//
// A run moves through these steps, stopping at the first failure:
//
//	locate volume -> resolve serial -> create workspace -> run collectors
//	  -> archive -> move to volume -> write checksum -> remove workspace
//
// When no removable volume qualifies, Run returns ErrNoDevice and writes
// nothing. When a later step fails, the workspace stays on disk so the
// collected artifacts are not lost.
//
// Usage:
//
//	b := &bundler.Bundler{Config: cfg}
//	report, err := b.Run(ctx)
//	if errors.Is(err, bundler.ErrNoDevice) {
//	    ...
//	}
//	fmt.Println(report.Summary())
//
// Every run gets a random RunID that is attached to its log lines. When
// Config.MetricsFile is set, run metrics are written there in the Prometheus
// text format for the node_exporter textfile collector.
package bundler
