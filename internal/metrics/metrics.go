// Package metrics exposes prometheus instrumentation for connector
// dispatches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConnectorMetrics records one observation per processing-step
// invocation, labeled by connector, flow and outcome class.
type ConnectorMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewConnectorMetrics registers the collectors on reg and returns the
// recorder. Passing prometheus.NewRegistry() in tests keeps them
// isolated from the default registry.
func NewConnectorMetrics(reg prometheus.Registerer) *ConnectorMetrics {
	m := &ConnectorMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "router_connector_calls_total",
			Help: "Processing-step invocations by connector, flow and outcome.",
		}, []string{"connector", "flow", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "router_connector_call_duration_seconds",
			Help:    "Processing-step duration by connector and flow.",
			Buckets: prometheus.DefBuckets,
		}, []string{"connector", "flow"}),
	}
	reg.MustRegister(m.calls, m.latency)
	return m
}

// RecordCall observes one completed (or aborted) processing step.
func (m *ConnectorMetrics) RecordCall(connector, flow, outcome string, elapsed time.Duration) {
	m.calls.WithLabelValues(connector, flow, outcome).Inc()
	m.latency.WithLabelValues(connector, flow).Observe(elapsed.Seconds())
}
