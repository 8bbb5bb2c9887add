package protocol

import (
	"io"
)

// Decode reads one message from data.
//
// An envelope whose discriminator is not a known type decodes to (nil, nil):
// it is well formed, there is just nothing to return. Every other failure is
// a *DecodeError or *SchemaError and no partial message is returned.
func Decode(data []byte) (Message, error) {
	env, err := DecodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	msg := newMessage(env.Type)
	if msg == nil {
		return nil, nil
	}
	if err := msg.decodeFields(env.Fields); err != nil {
		return nil, err
	}
	return msg, nil
}

// DecodeMessage is Decode for text
func DecodeMessage(text string) (Message, error) {
	return Decode([]byte(text))
}

// Encode writes m as one flat JSON object: "type" first, then the variant's
// members in declaration order. Absent optional members are omitted.
func Encode(m Message) ([]byte, error) {
	if m == nil {
		return nil, &EncodeError{Type: TypeUnknown, Err: ErrNilMessage}
	}

	t := m.Type()
	if !t.Known() {
		return nil, &EncodeError{Type: t, Err: ErrUnencodableType}
	}

	w := newObjectWriter()
	w.WriteInt64("type", int64(t))
	if err := m.encodeFields(w); err != nil {
		return nil, &EncodeError{Type: t, Err: err}
	}
	return w.Bytes(), nil
}

// EncodeMessage is Encode returning text
func EncodeMessage(m Message) (string, error) {
	data, err := Encode(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodeTo writes the encoding of m to w
func EncodeTo(w io.Writer, m Message) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
