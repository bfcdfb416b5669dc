package models

import (
	"time"
)

// ChatSession names a room. Sessions are immutable once created and are
// never deleted by the relay; the session id is the sole routing key for
// membership and storage.
type ChatSession struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}
