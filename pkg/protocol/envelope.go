package protocol

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf8"
)

// Envelope is the first decoding pass over a message: the discriminator plus
// the raw members that the selected variant will decode.
// Format: {"type": <int>, <variant members>...} in one flat object
type Envelope struct {
	Discriminator int64       // the integer found on the wire
	Type          MessageType // TypeUnknown when Discriminator is unrecognised
	Fields        map[string]json.RawMessage
}

// DecodeEnvelope parses data as a JSON object and reads its discriminator.
// It does not look at any member other than "type".
func DecodeEnvelope(data []byte) (*Envelope, error) {
	if !utf8.Valid(data) {
		return nil, &DecodeError{Kind: ErrMalformedInput, Detail: "invalid UTF-8"}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Kind: ErrMalformedInput, Detail: "empty input"}
	}

	// Check validity before shape so "[1," reports a syntax error
	if !json.Valid(trimmed) {
		var v any
		err := json.Unmarshal(trimmed, &v)
		return nil, &DecodeError{Kind: ErrMalformedInput, Detail: "invalid JSON", Err: err}
	}
	if trimmed[0] != '{' {
		return nil, &DecodeError{Kind: ErrMalformedInput, Detail: "not a JSON object"}
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return nil, &DecodeError{Kind: ErrMalformedInput, Detail: "invalid JSON", Err: err}
	}

	raw, ok := fields(members).lookup("type")
	if !ok {
		return nil, &DecodeError{Kind: ErrMissingDiscriminator, Detail: `no "type" member`}
	}
	discriminator, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil, &DecodeError{Kind: ErrMissingDiscriminator, Detail: `"type" is not an integer`}
	}

	return &Envelope{
		Discriminator: discriminator,
		Type:          MessageTypeFromInt(discriminator),
		Fields:        members,
	}, nil
}

// Known returns true if the discriminator selects a message variant
func (e *Envelope) Known() bool {
	return e.Type.Known()
}
