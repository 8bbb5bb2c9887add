package codec

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeolun/chatwire/pkg/protocol"
)

func newTestCodec(t *testing.T, cfg Config) (*Codec, *Metrics, *bytes.Buffer) {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	var logs bytes.Buffer
	c := New(
		WithConfig(cfg),
		WithMetrics(metrics),
		WithLogger(log.New(&logs, "", 0)),
	)
	return c, metrics, &logs
}

func TestCodecMatchesProtocol(t *testing.T) {
	inputs := []string{
		`{"type":0,"status":"s"}`,
		`{"type":-1,"error":"boom","clientshutdown":1}`,
		`{"type":4}`,
		`{"type":999}`,
		`{}`,
		`{not json`,
		`{"type":2}`,
	}

	c, _, _ := newTestCodec(t, DefaultConfig())
	for _, input := range inputs {
		want, wantErr := protocol.DecodeMessage(input)
		got, gotErr := c.Decode(input)

		assert.Equal(t, want, got, input)
		assert.Equal(t, wantErr, gotErr, input)
	}
}

func TestCodecDecodeRecordsMetrics(t *testing.T) {
	c, metrics, _ := newTestCodec(t, DefaultConfig())

	_, err := c.Decode(`{"type":0,"status":"s"}`)
	require.NoError(t, err)
	_, err = c.Decode(`{"type":0,"status":"t"}`)
	require.NoError(t, err)
	msg, err := c.Decode(`{"type":999}`)
	require.NoError(t, err)
	assert.Nil(t, msg)
	_, err = c.Decode(`{}`)
	require.Error(t, err)
	_, err = c.Decode(`{"type":3}`)
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.messagesDecoded.WithLabelValues("status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.unrecognized))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.decodeErrors.WithLabelValues(KindMissingDiscriminator)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.decodeErrors.WithLabelValues(KindSchemaMismatch)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.decodeErrors.WithLabelValues(KindMalformedInput)))
}

func TestCodecEncodeRecordsMetrics(t *testing.T) {
	c, metrics, logs := newTestCodec(t, DefaultConfig())

	text, err := c.Encode(&protocol.JoinMessage{Channel: "main"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":2,"channel":"main"}`, text)

	_, err = c.Encode(&protocol.UnknownMessage{})
	assert.ErrorIs(t, err, protocol.ErrUnencodableType)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.messagesEncoded.WithLabelValues("join")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.encodeErrors))
	assert.Contains(t, logs.String(), "Failed to encode message")
}

func TestCodecMessageSizeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxMessageBytes = 32
	c, metrics, _ := newTestCodec(t, cfg)

	_, err := c.Decode(`{"type":0,"status":"` + strings.Repeat("x", 64) + `"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrMalformedInput)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.decodeErrors.WithLabelValues(KindMalformedInput)))

	cfg.Limits.MaxMessageBytes = 0
	unlimited, _, _ := newTestCodec(t, cfg)
	msg, err := unlimited.Decode(`{"type":0,"status":"` + strings.Repeat("x", 64) + `"}`)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 64), msg.Content())
}

func TestCodecLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.LogUnrecognized = true
	c, _, logs := newTestCodec(t, cfg)

	_, _ = c.Decode(`{not json`)
	_, _ = c.Decode(`{"type":42}`)

	assert.Contains(t, logs.String(), "Failed to decode message: malformed input")
	assert.Contains(t, logs.String(), "unrecognized type")
}

func TestCodecLoggingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.LogDecodeErrors = false
	c, _, logs := newTestCodec(t, cfg)

	_, _ = c.Decode(`{not json`)
	_, _ = c.Decode(`{"type":42}`)

	assert.Empty(t, logs.String())
}

func TestCodecWithoutOptions(t *testing.T) {
	c := New()

	msg, err := c.Decode(`{"type":3,"topic":"t"}`)
	require.NoError(t, err)
	assert.Equal(t, "t", msg.Content())

	_, err = c.Encode(nil)
	assert.ErrorIs(t, err, protocol.ErrNilMessage)
}

func TestCodecConcurrentUse(t *testing.T) {
	c, metrics, _ := newTestCodec(t, DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				msg, err := c.Decode(`{"type":2,"channel":"main"}`)
				if err != nil {
					t.Errorf("decode failed: %v", err)
					return
				}
				if _, err := c.Encode(msg); err != nil {
					t.Errorf("encode failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800.0, testutil.ToFloat64(metrics.messagesDecoded.WithLabelValues("join")))
	assert.Equal(t, 800.0, testutil.ToFloat64(metrics.messagesEncoded.WithLabelValues("join")))
}

func TestErrorKind(t *testing.T) {
	_, malformed := protocol.DecodeMessage(`[`)
	_, missing := protocol.DecodeMessage(`{}`)
	_, schema := protocol.DecodeMessage(`{"type":0}`)

	assert.Equal(t, KindMalformedInput, ErrorKind(malformed))
	assert.Equal(t, KindMissingDiscriminator, ErrorKind(missing))
	assert.Equal(t, KindSchemaMismatch, ErrorKind(schema))
	assert.Equal(t, "", ErrorKind(protocol.ErrNilMessage))
	assert.Equal(t, "", ErrorKind(nil))
}
