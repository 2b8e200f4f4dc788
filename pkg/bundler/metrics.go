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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zbs3d/logbundle/pkg/artifact"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeSuccess  = "success"
	OutcomeNoDevice = "no_device"
	OutcomeError    = "error"
)

// Metrics holds the run metrics. Each instance owns its registry so a run
// can be written out as a node_exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	runDuration       prometheus.Histogram
	runTotal          *prometheus.CounterVec
	collectorDuration *prometheus.HistogramVec
	artifacts         *prometheus.GaugeVec
	archiveBytes      prometheus.Gauge
	lastSuccess       prometheus.Gauge
}

// NewMetrics creates the metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "logbundle_run_duration_seconds",
				Help:    "Time taken to produce a diagnostic bundle",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
		runTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logbundle_run_total",
				Help: "Total number of bundle runs",
			},
			[]string{"outcome"}, // success, no_device or error
		),
		collectorDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "logbundle_collector_duration_seconds",
				Help:    "Time taken by individual collectors",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"collector"},
		),
		artifacts: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "logbundle_artifacts",
				Help: "Number of collection results in the last run by status",
			},
			[]string{"status"},
		),
		archiveBytes: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "logbundle_archive_bytes",
				Help: "Size of the last archive moved to removable storage",
			},
		),
		lastSuccess: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "logbundle_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run",
			},
		),
	}
}

func (m *Metrics) observeCollector(name string, d time.Duration) {
	m.collectorDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) observeRun(outcome string, r *Report) {
	m.runTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(r.Duration.Seconds())

	for _, s := range []artifact.Status{artifact.StatusCollected, artifact.StatusSkipped, artifact.StatusFailed} {
		m.artifacts.WithLabelValues(string(s)).Set(float64(artifact.Count(r.Results, s)))
	}

	if outcome == OutcomeSuccess {
		m.archiveBytes.Set(float64(r.ArchiveSize))
		m.lastSuccess.Set(float64(r.StartedAt.Add(r.Duration).Unix()))
	}
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes the metrics in the text exposition format,
// replacing path atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
