package protocol

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// fields holds the top-level members of an envelope keyed by wire name.
// Values are left raw so each variant can decode its own members strictly.
type fields map[string]json.RawMessage

// lookup returns the raw value for key. A JSON null counts as absent.
func (f fields) lookup(key string) (json.RawMessage, bool) {
	raw, ok := f[key]
	if !ok {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

// ReadString reads a required string member
func (f fields) ReadString(t MessageType, key string) (string, error) {
	raw, ok := f.lookup(key)
	if !ok {
		return "", missingField(t, key)
	}
	return decodeString(t, key, raw)
}

// ReadOptionalString reads a string member that may be absent or null
func (f fields) ReadOptionalString(t MessageType, key string) (*string, error) {
	raw, ok := f.lookup(key)
	if !ok {
		return nil, nil
	}
	s, err := decodeString(t, key, raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadInt64 reads a required integer member. Fractions and exponents are rejected.
func (f fields) ReadInt64(t MessageType, key string) (int64, error) {
	raw, ok := f.lookup(key)
	if !ok {
		return 0, missingField(t, key)
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, wrongType(t, key, "integer")
	}
	return v, nil
}

// ReadOptionalStrings reads an array of strings that may be absent or null.
// An empty array decodes to an empty, non-nil slice.
func (f fields) ReadOptionalStrings(t MessageType, key string) ([]string, error) {
	raw, ok := f.lookup(key)
	if !ok {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, wrongType(t, key, "array of strings")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, wrongType(t, key, "array of strings")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '"' {
			return nil, wrongType(t, key, "array of strings")
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, wrongType(t, key, "array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

// ReadTimestamp reads Unix seconds and returns the instant in UTC
func (f fields) ReadTimestamp(t MessageType, key string) (time.Time, error) {
	secs, err := f.ReadInt64(t, key)
	if err != nil {
		return time.Time{}, err
	}
	if secs < 0 {
		return time.Time{}, &SchemaError{Type: t, Field: key, Reason: "must be a non-negative number of seconds"}
	}
	return time.Unix(secs, 0).UTC(), nil
}

func decodeString(t MessageType, key string, raw json.RawMessage) (string, error) {
	if raw[0] != '"' {
		return "", wrongType(t, key, "string")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", wrongType(t, key, "string")
	}
	return s, nil
}

// objectWriter builds one flat JSON object. Members are written in call order.
type objectWriter struct {
	buf     bytes.Buffer
	enc     *json.Encoder
	members int
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.enc = json.NewEncoder(&w.buf)
	w.enc.SetEscapeHTML(false)
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) key(k string) {
	if w.members > 0 {
		w.buf.WriteByte(',')
	}
	w.members++
	w.value(k)
	w.buf.WriteByte(':')
}

// value writes v with encoding/json, dropping the encoder's trailing newline.
// Only strings and string slices reach here, which cannot fail to encode.
func (w *objectWriter) value(v any) {
	_ = w.enc.Encode(v)
	w.buf.Truncate(w.buf.Len() - 1)
}

// WriteString writes a string member
func (w *objectWriter) WriteString(key, s string) {
	w.key(key)
	w.value(s)
}

// WriteOptionalString writes a string member, or nothing when s is nil
func (w *objectWriter) WriteOptionalString(key string, s *string) {
	if s == nil {
		return
	}
	w.WriteString(key, *s)
}

// WriteInt64 writes an integer member
func (w *objectWriter) WriteInt64(key string, v int64) {
	w.key(key)
	w.buf.WriteString(strconv.FormatInt(v, 10))
}

// WriteOptionalStrings writes a string array member, or nothing when items is nil
func (w *objectWriter) WriteOptionalStrings(key string, items []string) {
	if items == nil {
		return
	}
	w.key(key)
	w.value(items)
}

// WriteTimestamp writes t as whole Unix seconds. Sub-second precision is dropped.
func (w *objectWriter) WriteTimestamp(key string, t time.Time) error {
	secs := t.Unix()
	if secs < 0 {
		return ErrInvalidTimestamp
	}
	w.WriteInt64(key, secs)
	return nil
}

// Bytes closes the object and returns its encoding
func (w *objectWriter) Bytes() []byte {
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}
