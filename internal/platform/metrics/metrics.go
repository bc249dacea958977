// Package metrics holds the per-run Prometheus counters of the batch tools
// Batch runs have no scrape endpoint; Flush writes the registry in the
// node_exporter textfile format when a path is configured
package metrics

import (
	"time"

	perr "brreg/internal/platform/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the counters one tool run reports
type Metrics struct {
	Registry *prometheus.Registry

	RowsRead       prometheus.Counter
	RowsDropped    *prometheus.CounterVec
	RowsWritten    prometheus.Counter
	ShardsWritten  prometheus.Counter
	ShardReadError prometheus.Counter
	RunDuration    prometheus.Gauge
	LastSuccess    prometheus.Gauge

	tool    string
	started time.Time
}

// New creates a registry with all run metrics registered, const-labelled by tool
func New(tool string) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"tool": tool}, reg))
	return &Metrics{
		Registry: reg,
		RowsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "brreg_rows_read_total",
			Help: "Rows read from the input dump or shard tree",
		}),
		RowsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brreg_rows_dropped_total",
			Help: "Rows dropped before writing, by reason",
		}, []string{"reason"}),
		RowsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "brreg_rows_written_total",
			Help: "Rows written to shard files or export sinks",
		}),
		ShardsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "brreg_shards_written_total",
			Help: "Shard files created or rewritten",
		}),
		ShardReadError: f.NewCounter(prometheus.CounterOpts{
			Name: "brreg_shard_read_errors_total",
			Help: "Shard files skipped because they could not be read",
		}),
		RunDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "brreg_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "brreg_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
		tool:    tool,
		started: time.Now(),
	}
}

// Tool returns the tool label
func (m *Metrics) Tool() string { return m.tool }

// Dropped adds n to the dropped counter for reason
func (m *Metrics) Dropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsDropped.WithLabelValues(reason).Add(float64(n))
}

// Read adds n input rows
func (m *Metrics) Read(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsRead.Add(float64(n))
}

// Written adds n rows delivered to a sink
func (m *Metrics) Written(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsWritten.Add(float64(n))
}

// ShardWritten counts one shard file of n rows
func (m *Metrics) ShardWritten(n int) {
	if m == nil {
		return
	}
	m.ShardsWritten.Inc()
	m.Written(n)
}

// ReadFailed counts one skipped shard
func (m *Metrics) ReadFailed() {
	if m == nil {
		return
	}
	m.ShardReadError.Inc()
}

// Finish records duration and, on success, the success timestamp
func (m *Metrics) Finish(err error) {
	if m == nil {
		return
	}
	m.RunDuration.Set(time.Since(m.started).Seconds())
	if err == nil {
		m.LastSuccess.SetToCurrentTime()
	}
}

var writeTextfile = prometheus.WriteToTextfile

// Flush writes the registry to path; an empty path does nothing
func (m *Metrics) Flush(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := writeTextfile(path, m.Registry); err != nil {
		return perr.IOf(err, "write metrics textfile %s", path)
	}
	return nil
}
