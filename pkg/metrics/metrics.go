// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-ykotp.
//
// go-ykotp is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.
// Package metrics records the outcome of slot programming runs as
// Prometheus metrics. The CLI is short-lived, so instead of serving an
// endpoint the registry is written to a node_exporter textfile collector
// file at the end of each run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all ykotp metrics
	Namespace = "ykotp"

	// Label names
	LabelOperation = "operation"
	LabelSlot      = "slot"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
	LabelRunID     = "run_id"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpInit   = "init"
	OpDecode = "decode"
)

// Recorder holds the metrics of a single run on its own registry
type Recorder struct {
	registry *prometheus.Registry

	// CommandsTotal counts runs by operation, slot and status
	CommandsTotal *prometheus.CounterVec

	// ErrorsTotal counts failures by operation and error type, e.g.
	// "invalid_new_access_code" or "insufficient_key_material"
	ErrorsTotal *prometheus.CounterVec

	// LastRunTimestamp is the Unix time of the last completed run
	LastRunTimestamp prometheus.Gauge

	// RunInfo is always 1 and carries the run ID, so a textfile sample can
	// be matched to the log lines of the same run
	RunInfo *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "commands_total",
				Help:      "Total number of ykotp runs by operation, slot, and status",
			},
			[]string{LabelOperation, LabelSlot, LabelStatus},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "errors_total",
				Help:      "Total number of ykotp failures by operation and error type",
			},
			[]string{LabelOperation, LabelErrorType},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last ykotp run",
			},
		),
		RunInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "run_info",
				Help:      "Identifier of the ykotp run that wrote these metrics",
			},
			[]string{LabelRunID},
		),
	}
}

// SetRunID labels the metrics with the run identifier. Only the latest ID
// is kept.
func (r *Recorder) SetRunID(id string) {
	if id == "" {
		return
	}
	r.RunInfo.Reset()
	r.RunInfo.WithLabelValues(id).Set(1)
}

// RecordSuccess records a successful run
func (r *Recorder) RecordSuccess(operation, slot string) {
	r.CommandsTotal.WithLabelValues(operation, slot, StatusSuccess).Inc()
	r.LastRunTimestamp.Set(float64(time.Now().Unix()))
}

// RecordError records a failed run and its error type
func (r *Recorder) RecordError(operation, slot, errorType string) {
	r.CommandsTotal.WithLabelValues(operation, slot, StatusError).Inc()
	r.ErrorsTotal.WithLabelValues(operation, errorType).Inc()
	r.LastRunTimestamp.Set(float64(time.Now().Unix()))
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
