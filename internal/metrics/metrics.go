// Package metrics instruments the horse store with Prometheus counters and
// histograms kept on a private registry. A short-lived CLI cannot be
// scraped, so the registry is dumped in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the store metrics and the registry they live on.
type Metrics struct {
	registry *prometheus.Registry

	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Horses            prometheus.Gauge
}

// New creates the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "haras_store_operations_total",
			Help: "Store operations by operation and result",
		}, []string{"operation", "result"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "haras_store_operation_duration_seconds",
			Help:    "Duration of store operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		Horses: factory.NewGauge(prometheus.GaugeOpts{
			Name: "haras_horses",
			Help: "Number of horses in the store after the last full read or replace",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one operation. Call with time.Now() taken before it ran.
func (m *Metrics) Observe(operation string, start time.Time, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.Operations.WithLabelValues(operation, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// WriteTextfile atomically writes every metric to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
