package ws

import (
	"encoding/json"
	"time"
)

// Event types carried in envelopes, both directions.
const (
	EventJoin  = "join"
	EventLeave = "leave"
	EventChat  = "chat"
	EventError = "error"
	EventPing  = "ping"
	EventPong  = "pong"
)

// inboundEnvelope is the wire frame read from a client.
type inboundEnvelope struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

// outboundEnvelope is the wire frame written to a client.
type outboundEnvelope struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content,omitempty"`
}

// JoinPayload is the content of a join or leave event.
type JoinPayload struct {
	SessionID string `json:"sessionId"`
}

// SubmitPayload is the content of an inbound chat event. CreatedAt is an
// optional client timestamp hint in milliseconds since epoch; the store
// assigns the authoritative timestamp when it is absent. Empty text with an
// empty attachment reference is a valid message.
type SubmitPayload struct {
	SessionID string `json:"sessionId" validate:"required"`
	Sender    string `json:"sender" validate:"required"`
	Text      string `json:"text"`
	FileURL   string `json:"fileUrl"`
	FileType  string `json:"fileType"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// BroadcastMessage is the content of an outbound chat event. Persisted is
// false only in the lenient failure policy, when the store rejected the
// write and the relay forwarded the message best-effort.
type BroadcastMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	FileURL   string    `json:"fileUrl"`
	FileType  string    `json:"fileType"`
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Persisted bool      `json:"persisted"`
}

// ErrorPayload is the content of an outbound error event, sent only to the
// connection whose request failed.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
