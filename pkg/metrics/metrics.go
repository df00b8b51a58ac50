// Package metrics exposes Prometheus counters for table and config file
// operations.
//
// # Basic Usage
//
//	metrics.RowsDecoded.Add(float64(len(result.Table.Rows)))
//	metrics.RowsDropped.Add(float64(result.Failures))
//
//	timer := metrics.NewTimer("write")
//	err := codec.WriteFile(path, table, layout)
//	timer.ObserveDuration()
//
// Counters are registered on the default registry at package load, so
// Handler serves them without further setup:
//
//	http.Handle("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation label values for LinesWritten and OperationDuration.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpAppend = "append"
	OpConfig = "config"
)

var (
	// RowsDecoded counts records produced by file-level decoding
	RowsDecoded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asciitab_rows_decoded_total",
			Help: "Total number of data rows decoded into records",
		},
	)

	// RowsDropped counts rows that failed coercion and were skipped
	RowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asciitab_rows_dropped_total",
			Help: "Total number of data rows dropped during decoding",
		},
	)

	// LinesWritten counts text lines written, by operation
	LinesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asciitab_lines_written_total",
			Help: "Total number of lines written to table and config files",
		},
		[]string{"operation"},
	)

	// ConfigKeys counts keys decoded from config files
	ConfigKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asciitab_config_keys_total",
			Help: "Total number of keys decoded from config files",
		},
	)

	// OperationDuration tracks file operation latency in seconds
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asciitab_operation_duration_seconds",
			Help:    "Duration of file read and write operations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"operation"},
	)
)

// Timer measures one operation and records it in OperationDuration.
type Timer struct {
	start     time.Time
	operation string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		operation: operation,
	}
}

// ObserveDuration records the elapsed time and returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	OperationDuration.WithLabelValues(t.operation).Observe(d.Seconds())
	return d
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
