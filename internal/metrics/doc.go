// Package metrics provides Prometheus metrics for observability.
//
// This package exposes metrics for the MIDI stream path:
//   - Messages decoded, broken down by message type
//   - Messages discarded by the channel filter
//   - Bytes skipped while resynchronizing a corrupted stream
//   - Ring buffer overflows (the host is not draining fast enough)
//   - Messages sent, broken down by message type
//   - Active hub connections and broadcast failures
//
// Metrics are exposed via a dedicated HTTP server on /metrics in Prometheus
// format.
//
// Usage:
//
//	portMetrics := metrics.NewPortMetrics()
//	connMetrics := metrics.NewConnectionMetrics()
//
//	// Wire into the port and hub
//	p, err := port.New(tr, cfg)
//	if err != nil {
//		return err
//	}
//	p = p.WithMetrics(portMetrics)
//
//	// Start metrics server
//	metricsServer := metrics.NewServer(":9090")
//	metricsServer.Start()
package metrics
