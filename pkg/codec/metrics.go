package codec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for codec traffic
type Metrics struct {
	messagesDecoded *prometheus.CounterVec // by message type
	messagesEncoded *prometheus.CounterVec // by message type
	decodeErrors    *prometheus.CounterVec // by error kind
	unrecognized    prometheus.Counter
	encodeErrors    prometheus.Counter
	messageSize     *prometheus.HistogramVec // by direction
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		messagesDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatwire_messages_decoded_total",
				Help: "Total number of messages decoded by type",
			},
			[]string{"type"},
		),
		messagesEncoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatwire_messages_encoded_total",
				Help: "Total number of messages encoded by type",
			},
			[]string{"type"},
		),
		decodeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatwire_decode_errors_total",
				Help: "Total number of inputs that failed to decode by error kind",
			},
			[]string{"kind"},
		),
		unrecognized: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatwire_unrecognized_total",
				Help: "Total number of well formed messages with an unrecognized type",
			},
		),
		encodeErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatwire_encode_errors_total",
				Help: "Total number of messages that failed to encode",
			},
		),
		messageSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatwire_message_size_bytes",
				Help:    "Size of encoded and decoded messages",
				Buckets: prometheus.ExponentialBuckets(32, 4, 8), // 32 B .. 512 KiB
			},
			[]string{"direction"}, // "in" or "out"
		),
	}
}

// RecordDecoded increments the decoded counter for a type and observes the input size
func (m *Metrics) RecordDecoded(messageType string, size int) {
	m.messagesDecoded.WithLabelValues(messageType).Inc()
	m.messageSize.WithLabelValues("in").Observe(float64(size))
}

// RecordEncoded increments the encoded counter for a type and observes the output size
func (m *Metrics) RecordEncoded(messageType string, size int) {
	m.messagesEncoded.WithLabelValues(messageType).Inc()
	m.messageSize.WithLabelValues("out").Observe(float64(size))
}

// RecordDecodeError increments the decode error counter for a kind
func (m *Metrics) RecordDecodeError(kind string) {
	m.decodeErrors.WithLabelValues(kind).Inc()
}

// RecordUnrecognized increments the unrecognized discriminator counter
func (m *Metrics) RecordUnrecognized() {
	m.unrecognized.Inc()
}

// RecordEncodeError increments the encode error counter
func (m *Metrics) RecordEncodeError() {
	m.encodeErrors.Inc()
}
