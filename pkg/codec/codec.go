// Package codec wraps the pure protocol codec with logging and metrics for
// components that carry messages over a transport.
package codec

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aeolun/chatwire/pkg/protocol"
)

// Error kinds used as metric labels
const (
	KindMalformedInput       = "malformed_input"
	KindMissingDiscriminator = "missing_discriminator"
	KindSchemaMismatch       = "schema_mismatch"
)

// Codec decodes and encodes messages exactly like the protocol package and
// records what it saw. It holds no per-call state and is safe for concurrent use.
type Codec struct {
	config  Config
	logger  *log.Logger
	metrics *Metrics
}

// Option configures a Codec
type Option func(*Codec)

// WithLogger sets the logger. Without one nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(metrics *Metrics) Option {
	return func(c *Codec) {
		c.metrics = metrics
	}
}

// WithConfig replaces the default configuration
func WithConfig(cfg Config) Option {
	return func(c *Codec) {
		c.config = cfg
	}
}

// New creates a Codec
func New(opts ...Option) *Codec {
	c := &Codec{
		config: DefaultConfig(),
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Decode decodes text with protocol.DecodeMessage.
// A nil message with a nil error means the type was not recognized.
func (c *Codec) Decode(text string) (protocol.Message, error) {
	if limit := c.config.Limits.MaxMessageBytes; limit > 0 && len(text) > limit {
		err := &protocol.DecodeError{
			Kind:   protocol.ErrMalformedInput,
			Detail: fmt.Sprintf("message is %d bytes, limit is %d", len(text), limit),
		}
		c.decodeFailed(err)
		return nil, err
	}

	msg, err := protocol.DecodeMessage(text)
	if err != nil {
		c.decodeFailed(err)
		return nil, err
	}

	if msg == nil {
		if c.metrics != nil {
			c.metrics.RecordUnrecognized()
		}
		if c.config.Logging.LogUnrecognized {
			c.logger.Printf("Ignoring message with unrecognized type (%d bytes)", len(text))
		}
		return nil, nil
	}

	if c.metrics != nil {
		c.metrics.RecordDecoded(msg.Type().String(), len(text))
	}
	return msg, nil
}

// Encode encodes msg with protocol.EncodeMessage
func (c *Codec) Encode(msg protocol.Message) (string, error) {
	text, err := protocol.EncodeMessage(msg)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordEncodeError()
		}
		c.logger.Printf("Failed to encode message: %v", err)
		return "", err
	}

	if c.metrics != nil {
		c.metrics.RecordEncoded(msg.Type().String(), len(text))
	}
	return text, nil
}

func (c *Codec) decodeFailed(err error) {
	if c.metrics != nil {
		c.metrics.RecordDecodeError(ErrorKind(err))
	}
	if c.config.Logging.LogDecodeErrors {
		c.logger.Printf("Failed to decode message: %v", err)
	}
}

// ErrorKind classifies a decode error for labels and logs.
// It returns "" for errors that did not come from decoding.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, protocol.ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, protocol.ErrMissingDiscriminator):
		return KindMissingDiscriminator
	case errors.Is(err, protocol.ErrSchemaMismatch):
		return KindSchemaMismatch
	default:
		return ""
	}
}
