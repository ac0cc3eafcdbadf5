package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PortMetrics holds metrics for one direction pair of a MIDI port: the
// decode path (receive) and the encode path (send).
type PortMetrics struct {
	// MessagesDecoded counts structurally valid decoded messages.
	// Labels: type (NoteOn, PitchBend, ...).
	MessagesDecoded *prometheus.CounterVec

	// MessagesFiltered counts messages consumed but discarded because their
	// channel was excluded by the input filter.
	MessagesFiltered prometheus.Counter

	// BytesSkipped counts bytes discarded during stream resynchronization.
	BytesSkipped prometheus.Counter

	// BufferOverflows counts receive-side ring buffer overflows.
	BufferOverflows prometheus.Counter

	// MessagesSent counts encoded and written messages.
	// Labels: type.
	MessagesSent *prometheus.CounterVec
}

// NewPortMetrics creates and registers port metrics.
// Uses promauto for automatic registration with the default registry.
func NewPortMetrics() *PortMetrics {
	return &PortMetrics{
		MessagesDecoded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "midiwire",
				Subsystem: "port",
				Name:      "messages_decoded_total",
				Help:      "Total number of decoded MIDI messages, broken down by message type.",
			},
			[]string{"type"},
		),
		MessagesFiltered: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "midiwire",
				Subsystem: "port",
				Name:      "messages_filtered_total",
				Help:      "Total number of messages discarded by the channel filter.",
			},
		),
		BytesSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "midiwire",
				Subsystem: "port",
				Name:      "bytes_skipped_total",
				Help:      "Total number of bytes discarded during stream resynchronization.",
			},
		),
		BufferOverflows: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "midiwire",
				Subsystem: "port",
				Name:      "buffer_overflows_total",
				Help:      "Total number of receive buffer overflows.",
			},
		),
		MessagesSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "midiwire",
				Subsystem: "port",
				Name:      "messages_sent_total",
				Help:      "Total number of sent MIDI messages, broken down by message type.",
			},
			[]string{"type"},
		),
	}
}

// NewPortMetricsWithRegistry creates port metrics registered with a custom
// registry. Useful for testing to avoid conflicts with the default registry.
func NewPortMetricsWithRegistry(reg prometheus.Registerer) *PortMetrics {
	messagesDecoded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "port",
			Name:      "messages_decoded_total",
			Help:      "Total number of decoded MIDI messages, broken down by message type.",
		},
		[]string{"type"},
	)
	messagesFiltered := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "port",
			Name:      "messages_filtered_total",
			Help:      "Total number of messages discarded by the channel filter.",
		},
	)
	bytesSkipped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "port",
			Name:      "bytes_skipped_total",
			Help:      "Total number of bytes discarded during stream resynchronization.",
		},
	)
	bufferOverflows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "port",
			Name:      "buffer_overflows_total",
			Help:      "Total number of receive buffer overflows.",
		},
	)
	messagesSent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "port",
			Name:      "messages_sent_total",
			Help:      "Total number of sent MIDI messages, broken down by message type.",
		},
		[]string{"type"},
	)

	reg.MustRegister(messagesDecoded)
	reg.MustRegister(messagesFiltered)
	reg.MustRegister(bytesSkipped)
	reg.MustRegister(bufferOverflows)
	reg.MustRegister(messagesSent)

	return &PortMetrics{
		MessagesDecoded:  messagesDecoded,
		MessagesFiltered: messagesFiltered,
		BytesSkipped:     bytesSkipped,
		BufferOverflows:  bufferOverflows,
		MessagesSent:     messagesSent,
	}
}

// RecordDecoded records one decoded message by type name.
func (m *PortMetrics) RecordDecoded(msgType string) {
	m.MessagesDecoded.WithLabelValues(msgType).Inc()
}

// RecordFiltered records one message discarded by the channel filter.
func (m *PortMetrics) RecordFiltered() {
	m.MessagesFiltered.Inc()
}

// RecordSkipped records bytes discarded while resynchronizing.
func (m *PortMetrics) RecordSkipped(n int) {
	if n > 0 {
		m.BytesSkipped.Add(float64(n))
	}
}

// RecordOverflow records one receive buffer overflow.
func (m *PortMetrics) RecordOverflow() {
	m.BufferOverflows.Inc()
}

// RecordSent records one sent message by type name.
func (m *PortMetrics) RecordSent(msgType string) {
	m.MessagesSent.WithLabelValues(msgType).Inc()
}
