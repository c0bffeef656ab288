/*
Package chat contains the core logic for proximity membership and message relay:
the Hub event loop, the WebSocket client lifecycle, and the wire protocol.

This file defines the wire protocol. Every frame in either direction is a JSON
envelope with a type discriminator and a raw payload that is decoded into a
concrete struct once the type is known. Inbound frames are converted into an
explicit event union consumed by the Hub, keeping the core dispatch logic
independent of the transport library.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"mapchat/internal/app/user"
)

// Client -> Server event types.
const (
	TypeUserJoin     = "user:join"
	TypeUserMove     = "user:move"
	TypeMessageSend  = "message:send"
	TypeMessageVoice = "message:voice"
)

// Server -> Client event types. Message relays reuse the inbound type names so
// recipients see the same event the sender produced.
const (
	TypeProximityUpdate = "proximity:update"
	TypeError           = "error"
)

// Message type discriminator values carried inside a Message.
const (
	MessageTypeText  = "text"
	MessageTypeVoice = "voice"
)

// Message represents one relayed chat event, text or voice. Sender display
// attributes are denormalized on purpose: they are a snapshot taken at send
// time and are never re-joined against live user state.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserColor string    `json:"userColor"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`

	// AudioURL is only present for voice messages. It carries either an inline
	// data: URL or a storage object key that the hub rewrites to a presigned
	// download URL at relay time.
	AudioURL string `json:"audioUrl,omitempty"`

	// Latitude and Longitude record the sender's position at send time.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Envelope is the outer frame shared by both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload is the payload of a server->client error frame.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Event is the closed set of inbound events processed by the Hub. Each
// variant carries the client connection it arrived on.
type Event interface {
	// eventType returns the wire name of the event, used for logging.
	eventType() string
}

// JoinEvent announces a user to the registry and binds it to a connection.
type JoinEvent struct {
	Client *Client
	User   user.User
}

// MoveEvent updates the position of an already joined user.
type MoveEvent struct {
	Client *Client
	User   user.User
}

// TextMessageEvent relays a text message to the sender's neighbor set.
type TextMessageEvent struct {
	Client  *Client
	Message Message
}

// VoiceMessageEvent relays a voice message to the sender's neighbor set.
type VoiceMessageEvent struct {
	Client  *Client
	Message Message
}

// DisconnectEvent removes the connection's user from the registry.
type DisconnectEvent struct {
	Client *Client
}

func (JoinEvent) eventType() string         { return TypeUserJoin }
func (MoveEvent) eventType() string         { return TypeUserMove }
func (TextMessageEvent) eventType() string  { return TypeMessageSend }
func (VoiceMessageEvent) eventType() string { return TypeMessageVoice }
func (DisconnectEvent) eventType() string   { return "disconnect" }

// ParseClientEvent parses raw WebSocket bytes from c into a typed event.
// It returns an error for malformed JSON, unknown or server-only types, and
// payloads that do not decode into the expected struct.
func ParseClientEvent(c *Client, data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("chat: failed to parse envelope: %w", err)
	}

	if env.Type == "" {
		return nil, fmt.Errorf("chat: missing or empty \"type\" field")
	}

	switch env.Type {
	case TypeUserJoin:
		var u user.User
		if err := json.Unmarshal(env.Payload, &u); err != nil {
			return nil, fmt.Errorf("chat: invalid %s payload: %w", env.Type, err)
		}
		return JoinEvent{Client: c, User: u}, nil

	case TypeUserMove:
		var u user.User
		if err := json.Unmarshal(env.Payload, &u); err != nil {
			return nil, fmt.Errorf("chat: invalid %s payload: %w", env.Type, err)
		}
		return MoveEvent{Client: c, User: u}, nil

	case TypeMessageSend:
		var m Message
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("chat: invalid %s payload: %w", env.Type, err)
		}
		return TextMessageEvent{Client: c, Message: m}, nil

	case TypeMessageVoice:
		var m Message
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("chat: invalid %s payload: %w", env.Type, err)
		}
		return VoiceMessageEvent{Client: c, Message: m}, nil

	default:
		return nil, fmt.Errorf("chat: unsupported event type %q", env.Type)
	}
}

// NewFrame marshals an outbound envelope of the given type around payload.
func NewFrame(frameType string, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("chat: failed to marshal %s payload: %w", frameType, err)
	}

	frame, err := json.Marshal(Envelope{
		Type:    frameType,
		Payload: payloadBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: failed to marshal %s frame: %w", frameType, err)
	}

	return frame, nil
}
