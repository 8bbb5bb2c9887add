package protocol

import (
	"errors"
	"fmt"
)

var (
	// Decode failures
	ErrMalformedInput       = errors.New("malformed input")
	ErrMissingDiscriminator = errors.New("missing discriminator")
	ErrSchemaMismatch       = errors.New("schema mismatch")

	// Encode failures
	ErrNilMessage       = errors.New("nil message")
	ErrUnencodableType  = errors.New("message type has no wire representation")
	ErrInvalidTimestamp = errors.New("timestamp is before the Unix epoch")
)

// DecodeError reports input that could not be read as an envelope.
// Kind is ErrMalformedInput or ErrMissingDiscriminator.
type DecodeError struct {
	Kind   error
	Detail string
	Err    error // underlying parser error, if any
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// SchemaError reports a known variant whose member is missing or has the wrong JSON type
type SchemaError struct {
	Type   MessageType
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s message field %q %s", ErrSchemaMismatch, e.Type, e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

func missingField(t MessageType, key string) error {
	return &SchemaError{Type: t, Field: key, Reason: "is required"}
}

func wrongType(t MessageType, key, want string) error {
	return &SchemaError{Type: t, Field: key, Reason: "must be " + want}
}

// EncodeError reports an in-memory value that has no valid wire form
type EncodeError struct {
	Type MessageType
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s message: %v", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
