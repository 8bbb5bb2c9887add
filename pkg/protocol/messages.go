package protocol

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageType is the wire discriminator carried in the "type" member
type MessageType int

// Message type constants
const (
	TypeUnknown      MessageType = -999 // program-side default, never on the wire
	TypeError        MessageType = -1
	TypeStatus       MessageType = 0
	TypeChat         MessageType = 1
	TypeJoin         MessageType = 2
	TypeChangeTopic  MessageType = 3
	TypeListChannels MessageType = 4
)

// MessageTypeFromInt maps a wire discriminator to a MessageType.
// Values outside the known set map to TypeUnknown.
func MessageTypeFromInt(v int64) MessageType {
	switch v {
	case -1:
		return TypeError
	case 0:
		return TypeStatus
	case 1:
		return TypeChat
	case 2:
		return TypeJoin
	case 3:
		return TypeChangeTopic
	case 4:
		return TypeListChannels
	default:
		return TypeUnknown
	}
}

// Known returns true for the six types that have a wire schema
func (t MessageType) Known() bool {
	return t != TypeUnknown && MessageTypeFromInt(int64(t)) == t
}

func (t MessageType) String() string {
	switch t {
	case TypeError:
		return "error"
	case TypeStatus:
		return "status"
	case TypeChat:
		return "chat"
	case TypeJoin:
		return "join"
	case TypeChangeTopic:
		return "changeTopic"
	case TypeListChannels:
		return "listChannels"
	default:
		return "unknown"
	}
}

// Message is implemented by every message variant in this package and nowhere else.
// The presentation methods are derived from the variant's fields on each call.
type Message interface {
	Type() MessageType

	// SpecialSymbol is a short symbolic tag for rendering the message
	SpecialSymbol() string
	// Origin names who the message appears to come from
	Origin() string
	// Content is the text to display
	Content() string
	IsDirectMessage() bool

	encodeFields(w *objectWriter) error
	decodeFields(f fields) error
}

// newMessage returns an empty variant for t, or nil if t has no schema
func newMessage(t MessageType) Message {
	switch t {
	case TypeStatus:
		return &StatusMessage{}
	case TypeError:
		return &ErrorMessage{}
	case TypeListChannels:
		return &ListChannelsMessage{}
	case TypeChangeTopic:
		return &ChangeTopicMessage{}
	case TypeJoin:
		return &JoinMessage{}
	case TypeChat:
		return &ChatMessage{}
	default:
		return nil
	}
}

// UnknownMessage is the default message with no wire representation.
// Decoding never produces it and encoding it fails.
type UnknownMessage struct{}

func (m *UnknownMessage) Type() MessageType     { return TypeUnknown }
func (m *UnknownMessage) SpecialSymbol() string { return "" }
func (m *UnknownMessage) Origin() string        { return "server" }
func (m *UnknownMessage) Content() string       { return "" }
func (m *UnknownMessage) IsDirectMessage() bool { return false }

func (m *UnknownMessage) encodeFields(w *objectWriter) error {
	return ErrUnencodableType
}

func (m *UnknownMessage) decodeFields(f fields) error {
	return nil
}

// StatusMessage (0) - Server status notice
type StatusMessage struct {
	Status string
}

func NewStatusMessage() *StatusMessage {
	return &StatusMessage{}
}

func (m *StatusMessage) Type() MessageType     { return TypeStatus }
func (m *StatusMessage) SpecialSymbol() string { return "info.circle.fill" }
func (m *StatusMessage) Origin() string        { return "server says:" }
func (m *StatusMessage) Content() string       { return m.Status }
func (m *StatusMessage) IsDirectMessage() bool { return false }

func (m *StatusMessage) encodeFields(w *objectWriter) error {
	if m == nil {
		return ErrNilMessage
	}
	w.WriteString("status", m.Status)
	return nil
}

func (m *StatusMessage) decodeFields(f fields) error {
	status, err := f.ReadString(TypeStatus, "status")
	if err != nil {
		return err
	}
	m.Status = status
	return nil
}

// ErrorMessage (-1) - Server error, optionally asking the client to disconnect
type ErrorMessage struct {
	Error          string
	ClientShutdown int64 // nonzero means the client must close the connection
}

func NewErrorMessage() *ErrorMessage {
	return &ErrorMessage{}
}

func (m *ErrorMessage) Type() MessageType     { return TypeError }
func (m *ErrorMessage) SpecialSymbol() string { return "exclamationmark.bubble" }
func (m *ErrorMessage) Origin() string        { return "server error!:" }
func (m *ErrorMessage) Content() string       { return m.Error }
func (m *ErrorMessage) IsDirectMessage() bool { return false }

// ShutdownRequested returns true if the server asked the client to disconnect
func (m *ErrorMessage) ShutdownRequested() bool {
	return m.ClientShutdown != 0
}

func (m *ErrorMessage) encodeFields(w *objectWriter) error {
	if m == nil {
		return ErrNilMessage
	}
	w.WriteString("error", m.Error)
	w.WriteInt64("clientshutdown", m.ClientShutdown)
	return nil
}

func (m *ErrorMessage) decodeFields(f fields) error {
	errText, err := f.ReadString(TypeError, "error")
	if err != nil {
		return err
	}
	shutdown, err := f.ReadInt64(TypeError, "clientshutdown")
	if err != nil {
		return err
	}

	m.Error = errText
	m.ClientShutdown = shutdown
	return nil
}

// ListChannelsMessage (4) - Channels available on the server
type ListChannelsMessage struct {
	Channels []string // nil when absent from the wire
}

func NewListChannelsMessage() *ListChannelsMessage {
	return &ListChannelsMessage{}
}

func (m *ListChannelsMessage) Type() MessageType     { return TypeListChannels }
func (m *ListChannelsMessage) SpecialSymbol() string { return "list.star" }
func (m *ListChannelsMessage) Origin() string        { return "channels in server:" }
func (m *ListChannelsMessage) Content() string       { return strings.Join(m.Channels, ", ") }
func (m *ListChannelsMessage) IsDirectMessage() bool { return false }

func (m *ListChannelsMessage) encodeFields(w *objectWriter) error {
	if m == nil {
		return ErrNilMessage
	}
	w.WriteOptionalStrings("channels", m.Channels)
	return nil
}

func (m *ListChannelsMessage) decodeFields(f fields) error {
	channels, err := f.ReadOptionalStrings(TypeListChannels, "channels")
	if err != nil {
		return err
	}
	m.Channels = channels
	return nil
}

// ChangeTopicMessage (3) - Channel topic
type ChangeTopicMessage struct {
	Topic string
}

func NewChangeTopicMessage() *ChangeTopicMessage {
	return &ChangeTopicMessage{}
}

func (m *ChangeTopicMessage) Type() MessageType     { return TypeChangeTopic }
func (m *ChangeTopicMessage) SpecialSymbol() string { return "bubble.left.and.bubble.right" }
func (m *ChangeTopicMessage) Origin() string        { return "channel topic is:" }
func (m *ChangeTopicMessage) Content() string       { return m.Topic }
func (m *ChangeTopicMessage) IsDirectMessage() bool { return false }

func (m *ChangeTopicMessage) encodeFields(w *objectWriter) error {
	if m == nil {
		return ErrNilMessage
	}
	w.WriteString("topic", m.Topic)
	return nil
}

func (m *ChangeTopicMessage) decodeFields(f fields) error {
	topic, err := f.ReadString(TypeChangeTopic, "topic")
	if err != nil {
		return err
	}
	m.Topic = topic
	return nil
}

// JoinMessage (2) - Join a channel
type JoinMessage struct {
	Channel string
}

func NewJoinMessage() *JoinMessage {
	return &JoinMessage{}
}

func (m *JoinMessage) Type() MessageType     { return TypeJoin }
func (m *JoinMessage) SpecialSymbol() string { return "checkmark.bubble.fill" }
func (m *JoinMessage) Origin() string        { return "server" }
func (m *JoinMessage) Content() string       { return m.Channel }
func (m *JoinMessage) IsDirectMessage() bool { return false }

func (m *JoinMessage) encodeFields(w *objectWriter) error {
	if m == nil {
		return ErrNilMessage
	}
	w.WriteString("channel", m.Channel)
	return nil
}

func (m *JoinMessage) decodeFields(f fields) error {
	channel, err := f.ReadString(TypeJoin, "channel")
	if err != nil {
		return err
	}
	m.Channel = channel
	return nil
}

// ChatMessage (1) - A user's chat line, optionally a reply and/or a direct message
type ChatMessage struct {
	ID              string
	InReplyTo       *string // ID of the message being replied to
	DirectMessageTo *string // recipient nickname for private messages
	User            string
	Message         string
	Sent            time.Time // whole seconds on the wire
}

// NewChatMessage returns a chat message with a fresh random ID sent now
func NewChatMessage() *ChatMessage {
	return &ChatMessage{
		ID:   uuid.NewString(),
		Sent: time.Now(),
	}
}

func (m *ChatMessage) Type() MessageType { return TypeChat }

func (m *ChatMessage) SpecialSymbol() string {
	if m.IsDirectMessage() {
		return "lock.shield"
	}
	return "quote.bubble"
}

func (m *ChatMessage) Origin() string        { return m.User }
func (m *ChatMessage) Content() string       { return m.Message }
func (m *ChatMessage) IsDirectMessage() bool { return m.DirectMessageTo != nil }

// IsReply returns true if the message answers another message
func (m *ChatMessage) IsReply() bool {
	return m.InReplyTo != nil
}

// Time returns when the message was sent
func (m *ChatMessage) Time() time.Time {
	return m.Sent
}

func (m *ChatMessage) encodeFields(w *objectWriter) error {
	if m == nil {
		return ErrNilMessage
	}
	w.WriteString("id", m.ID)
	w.WriteOptionalString("inReplyTo", m.InReplyTo)
	w.WriteOptionalString("directMessageTo", m.DirectMessageTo)
	w.WriteString("user", m.User)
	w.WriteString("message", m.Message)
	return w.WriteTimestamp("sent", m.Sent)
}

func (m *ChatMessage) decodeFields(f fields) error {
	id, err := f.ReadString(TypeChat, "id")
	if err != nil {
		return err
	}
	inReplyTo, err := f.ReadOptionalString(TypeChat, "inReplyTo")
	if err != nil {
		return err
	}
	directMessageTo, err := f.ReadOptionalString(TypeChat, "directMessageTo")
	if err != nil {
		return err
	}
	user, err := f.ReadString(TypeChat, "user")
	if err != nil {
		return err
	}
	message, err := f.ReadString(TypeChat, "message")
	if err != nil {
		return err
	}
	sent, err := f.ReadTimestamp(TypeChat, "sent")
	if err != nil {
		return err
	}

	m.ID = id
	m.InReplyTo = inReplyTo
	m.DirectMessageTo = directMessageTo
	m.User = user
	m.Message = message
	m.Sent = sent
	return nil
}
