package models

import (
	"time"
)

// Message is one durable chat message. Records are append-only: nothing
// updates or deletes a message after Append has assigned its order key.
type Message struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ExternalID string `json:"external_id" gorm:"index"`
	SessionID  string `json:"session_id" gorm:"index"`
	Sender     string `json:"sender"`
	Text       string `json:"text"`
	// Attachment reference, both fields empty when the message has none.
	// The relay stores and forwards the reference; it never reads the bytes.
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
	// Order key. Messages within a session are totally ordered by
	// (Timestamp, Seq); Seq breaks wall-clock ties and client-supplied
	// timestamp collisions.
	Seq       uint64    `json:"seq" gorm:"index"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}
