package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConnectionMetrics holds metrics related to hub TCP connections.
type ConnectionMetrics struct {
	// ActiveConnections tracks the current number of active TCP connections.
	ActiveConnections prometheus.Gauge

	// ConnectionsTotal counts all accepted connections.
	ConnectionsTotal prometheus.Counter

	// BroadcastErrors counts failed writes while fanning a message out to
	// the other connections.
	BroadcastErrors prometheus.Counter
}

// NewConnectionMetrics creates and registers connection metrics.
// Uses promauto for automatic registration with the default registry.
func NewConnectionMetrics() *ConnectionMetrics {
	return &ConnectionMetrics{
		ActiveConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "midiwire",
				Subsystem: "hub",
				Name:      "active_connections",
				Help:      "Current number of active TCP connections.",
			},
		),
		ConnectionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "midiwire",
				Subsystem: "hub",
				Name:      "connections_total",
				Help:      "Total number of accepted TCP connections.",
			},
		),
		BroadcastErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "midiwire",
				Subsystem: "hub",
				Name:      "broadcast_errors_total",
				Help:      "Total number of failed broadcast writes.",
			},
		),
	}
}

// NewConnectionMetricsWithRegistry creates connection metrics registered
// with a custom registry. Useful for testing to avoid conflicts with the
// default registry.
func NewConnectionMetricsWithRegistry(reg prometheus.Registerer) *ConnectionMetrics {
	activeConnections := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "midiwire",
			Subsystem: "hub",
			Name:      "active_connections",
			Help:      "Current number of active TCP connections.",
		},
	)
	connectionsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "hub",
			Name:      "connections_total",
			Help:      "Total number of accepted TCP connections.",
		},
	)
	broadcastErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "hub",
			Name:      "broadcast_errors_total",
			Help:      "Total number of failed broadcast writes.",
		},
	)

	reg.MustRegister(activeConnections)
	reg.MustRegister(connectionsTotal)
	reg.MustRegister(broadcastErrors)

	return &ConnectionMetrics{
		ActiveConnections: activeConnections,
		ConnectionsTotal:  connectionsTotal,
		BroadcastErrors:   broadcastErrors,
	}
}

// ConnectionOpened increments the active connections gauge and the total
// counter.
func (m *ConnectionMetrics) ConnectionOpened() {
	m.ActiveConnections.Inc()
	m.ConnectionsTotal.Inc()
}

// ConnectionClosed decrements the active connections gauge.
func (m *ConnectionMetrics) ConnectionClosed() {
	m.ActiveConnections.Dec()
}

// RecordBroadcastError records one failed fan-out write.
func (m *ConnectionMetrics) RecordBroadcastError() {
	m.BroadcastErrors.Inc()
}
