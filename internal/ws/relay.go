package ws

import (
	"encoding/json"
	"sync"
	"time"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"
	"realtime-chat/backend/pkg/logger"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MessageStore is what the relay needs from the message service: persist one
// message and hand back the assigned order key.
type MessageStore interface {
	Append(message *models.Message) (*models.Message, error)
}

// SessionChecker answers join-time existence checks. Implementations must be
// cheap; the session service backs this with an in-process cache.
type SessionChecker interface {
	Exists(sessionID string) (bool, error)
}

// Config selects the relay's policies.
type Config struct {
	// BroadcastOnStoreFailure keeps broadcasting when the store rejects a
	// write, flagging the message persisted=false. Off by default: the
	// sender gets an explicit error and nothing is broadcast.
	BroadcastOnStoreFailure bool
	// ValidateSessionOnJoin rejects joins for unknown sessions. Off by
	// default (permissive join: session ids act as capability tokens).
	ValidateSessionOnJoin bool
}

// Relay serializes, persists and fan-outs messages within a session.
//
// All submissions to one session run under that session's lock, so the order
// key assignment and the broadcast set can never race: broadcast order equals
// persistence order for every member. Independent sessions proceed in
// parallel. Membership is process-local, which pins the design to a single
// relay process; scaling out would need an external pub/sub fan-out.
type Relay struct {
	membership *Membership
	store      MessageStore
	sessions   SessionChecker
	cfg        Config
	log        *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRelay(membership *Membership, store MessageStore, sessions SessionChecker, cfg Config, log *logger.Logger) *Relay {
	return &Relay{
		membership: membership,
		store:      store,
		sessions:   sessions,
		cfg:        cfg,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Join registers the connection as a member of the session's room. No-op if
// already a member. The existence check, when enabled, consults the cached
// registry only; a registry lookup error keeps the join permissive rather
// than blocking the client.
func (r *Relay) Join(conn Conn, sessionID string) error {
	if sessionID == "" {
		return apperrors.NewValidationError("sessionId is required")
	}

	if r.cfg.ValidateSessionOnJoin && r.sessions != nil {
		known, err := r.sessions.Exists(sessionID)
		if err != nil {
			r.log.LogError(err, "session existence check failed, allowing join", "session_id", sessionID)
		} else if !known {
			return apperrors.NewUnknownSessionError(sessionID)
		}
	}

	r.membership.Join(conn, sessionID)
	r.log.Debug("connection joined session", "conn_id", conn.ID(), "session_id", sessionID)
	return nil
}

// Leave removes one membership edge. Idempotent.
func (r *Relay) Leave(conn Conn, sessionID string) {
	r.membership.Leave(conn, sessionID)
}

// Disconnect removes every membership edge for the connection. Idempotent.
// An in-flight Submit still completes delivery to the remaining members.
func (r *Relay) Disconnect(conn Conn) {
	r.membership.RemoveAll(conn)
}

// Submit persists the message and broadcasts it to every current member of
// the session, including the sender: the echoed broadcast is the
// acknowledgment. A validation or storage error is returned to the caller
// for the originating connection only and never disturbs other members.
func (r *Relay) Submit(conn Conn, req SubmitPayload) error {
	if err := validate.Struct(req); err != nil {
		validationFailures.Inc()
		return apperrors.NewValidationError("message is missing required fields")
	}

	lock := r.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	message := &models.Message{
		SessionID: req.SessionID,
		Sender:    req.Sender,
		Text:      req.Text,
		FileURL:   req.FileURL,
		FileType:  req.FileType,
	}
	if req.CreatedAt > 0 {
		message.Timestamp = time.UnixMilli(req.CreatedAt).UTC()
	}

	persisted := true
	stored, err := r.store.Append(message)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeValidationFailed) {
			validationFailures.Inc()
			return err
		}

		persistFailures.Inc()
		if !r.cfg.BroadcastOnStoreFailure {
			return err
		}

		// Lenient policy: forward to currently connected peers anyway,
		// flagged so observers can tell the write was lost.
		r.log.LogError(err, "message not persisted, broadcasting best-effort",
			"session_id", req.SessionID, "sender", req.Sender)
		persisted = false
		stored = message
		if stored.Timestamp.IsZero() {
			stored.Timestamp = time.Now().UTC()
		}
	}

	r.broadcast(stored, persisted)
	messagesRelayed.Inc()
	return nil
}

// broadcast fans the message out to the session's current members. Caller
// holds the session lock, so every member observes the same relative order.
// Delivery failures mean the peer is gone or hopelessly backed up; they are
// counted and skipped, never fatal.
func (r *Relay) broadcast(message *models.Message, persisted bool) {
	out := BroadcastMessage{
		ID:        message.ExternalID,
		SessionID: message.SessionID,
		Sender:    message.Sender,
		Text:      message.Text,
		FileURL:   message.FileURL,
		FileType:  message.FileType,
		Seq:       message.Seq,
		Timestamp: message.Timestamp,
		Persisted: persisted,
	}

	payload, err := json.Marshal(outboundEnvelope{Type: EventChat, Content: out})
	if err != nil {
		r.log.LogError(err, "broadcast encode failed", "session_id", message.SessionID)
		return
	}

	for _, member := range r.membership.MembersOf(message.SessionID) {
		if err := member.Deliver(payload); err != nil {
			broadcastDrops.Inc()
			r.log.Debug("skipping unreachable member",
				"conn_id", member.ID(), "session_id", message.SessionID, "reason", err.Error())
		}
	}
}

func (r *Relay) sessionLock(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[sessionID] = lock
	}
	return lock
}
