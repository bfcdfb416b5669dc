package repository

import (
	"sync"
	"time"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository is the durable, append-only message store. Append assigns
// the authoritative order key; there is no update or delete path.
type MessageRepository interface {
	Append(message *models.Message) (*models.Message, error)
	ListBySession(sessionID string) ([]models.Message, error)
	ListBySessionPaginated(sessionID string, limit, offset int) ([]models.Message, error)
}

type GormMessageRepository struct {
	db *gorm.DB

	// Per-session sequence counters, lazily seeded from the table. The relay
	// serializes appends per session, so a counter only needs to be monotonic,
	// not contention-free.
	seqMu sync.Mutex
	seqs  map[string]uint64
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{
		db:   db,
		seqs: make(map[string]uint64),
	}
}

// Append stores the message and assigns its order key: the persistence
// timestamp (kept when the caller supplied a hint) plus the next per-session
// sequence number. Sequence numbers may have gaps after failed writes; they
// stay monotonic, which is all ordering needs.
func (r *GormMessageRepository) Append(message *models.Message) (*models.Message, error) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	if message.ExternalID == "" {
		message.ExternalID = uuid.New().String()
	}

	seq, err := r.nextSeq(message.SessionID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("could not assign message sequence: " + err.Error())
	}
	message.Seq = seq

	if err := r.db.Create(message).Error; err != nil {
		return nil, apperrors.NewStorageUnavailableError("could not persist message: " + err.Error())
	}
	return message, nil
}

func (r *GormMessageRepository) ListBySession(sessionID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("session_id = ?", sessionID).
		Order("timestamp ASC, seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("could not list messages: " + err.Error())
	}
	return messages, nil
}

func (r *GormMessageRepository) ListBySessionPaginated(sessionID string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("session_id = ?", sessionID).
		Order("timestamp ASC, seq ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("could not list messages: " + err.Error())
	}
	return messages, nil
}

func (r *GormMessageRepository) nextSeq(sessionID string) (uint64, error) {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	if _, seeded := r.seqs[sessionID]; !seeded {
		var max uint64
		err := r.db.Model(&models.Message{}).
			Where("session_id = ?", sessionID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&max).Error
		if err != nil {
			return 0, err
		}
		r.seqs[sessionID] = max
	}

	r.seqs[sessionID]++
	return r.seqs[sessionID], nil
}
