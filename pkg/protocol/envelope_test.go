package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`  {"type": 3, "topic": "x"}  `))
	require.NoError(t, err)
	assert.Equal(t, int64(3), env.Discriminator)
	assert.Equal(t, TypeChangeTopic, env.Type)
	assert.True(t, env.Known())
	assert.Contains(t, env.Fields, "topic")
	assert.Contains(t, env.Fields, "type")
}

func TestDecodeEnvelopeUnknown(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"type":999}`))
	require.NoError(t, err)
	assert.Equal(t, int64(999), env.Discriminator)
	assert.Equal(t, TypeUnknown, env.Type)
	assert.False(t, env.Known())
}

func TestDecodeMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"broken object", `{not json`},
		{"empty", ``},
		{"whitespace", "   \n"},
		{"truncated", `{"type":1,`},
		{"trailing data", `{"type":1} {}`},
		{"array", `[{"type":1}]`},
		{"string", `"type"`},
		{"number", `1`},
		{"null", `null`},
		{"invalid utf8", "{\"type\":0,\"status\":\"\xff\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage(tt.input)
			require.Error(t, err)
			assert.Nil(t, msg)
			assert.True(t, errors.Is(err, ErrMalformedInput), err.Error())

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, ErrMalformedInput, de.Kind)
		})
	}
}

func TestDecodeMalformedWrapsSyntaxError(t *testing.T) {
	_, err := DecodeMessage(`{not json`)
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestDecodeMissingDiscriminator(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty object", `{}`},
		{"other members only", `{"status":"s"}`},
		{"null", `{"type":null}`},
		{"string", `{"type":"1"}`},
		{"bool", `{"type":true}`},
		{"fraction", `{"type":1.5}`},
		{"exponent", `{"type":1e0}`},
		{"object", `{"type":{"v":1}}`},
		{"overflow", `{"type":99999999999999999999}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage(tt.input)
			require.Error(t, err)
			assert.Nil(t, msg)
			assert.True(t, errors.Is(err, ErrMissingDiscriminator), err.Error())
			assert.False(t, errors.Is(err, ErrMalformedInput))
		})
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	err := &DecodeError{Kind: ErrMissingDiscriminator, Detail: `no "type" member`}
	assert.Equal(t, `missing discriminator: no "type" member`, err.Error())

	inner := errors.New("boom")
	err = &DecodeError{Kind: ErrMalformedInput, Detail: "invalid JSON", Err: inner}
	assert.Equal(t, "malformed input: invalid JSON: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
