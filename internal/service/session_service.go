package service

import (
	"encoding/json"
	"time"

	"realtime-chat/backend/internal/models"
	"realtime-chat/backend/internal/repository"
	"realtime-chat/backend/pkg/cache"
	"realtime-chat/backend/pkg/logger"
	"realtime-chat/backend/shared/redis"

	"github.com/google/uuid"
)

const sessionListCacheKey = "sessions:list"

// SessionService is the session registry. Existence is mirrored into an
// in-process cache so join-time validation never waits on the database, and
// the session list is served through a redis read-through cache.
type SessionService struct {
	repo     repository.SessionRepository
	existing *cache.Cache
	rdb      *redis.RedisClient
	log      *logger.Logger
}

func NewSessionService(repo repository.SessionRepository, existing *cache.Cache, rdb *redis.RedisClient, log *logger.Logger) *SessionService {
	return &SessionService{repo: repo, existing: existing, rdb: rdb, log: log}
}

// Create registers a new session under a fresh opaque identifier.
func (s *SessionService) Create() (*models.ChatSession, error) {
	session := &models.ChatSession{SessionID: uuid.New().String()}
	if err := s.repo.Create(session); err != nil {
		return nil, err
	}

	if s.existing != nil {
		s.existing.SetWithExpiration("session:"+session.SessionID, true, 0)
	}
	if s.rdb != nil {
		if err := s.rdb.Del(sessionListCacheKey); err != nil {
			s.log.Debug("session list cache invalidation failed", "error", err.Error())
		}
	}

	return session, nil
}

// List returns all sessions, newest first.
func (s *SessionService) List() ([]models.ChatSession, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(sessionListCacheKey); err == nil && cached != "" {
			var sessions []models.ChatSession
			if err := json.Unmarshal([]byte(cached), &sessions); err == nil {
				return sessions, nil
			}
		}
	}

	sessions, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(sessions); err == nil {
			_ = s.rdb.Set(sessionListCacheKey, data, 30*time.Second)
		}
	}

	return sessions, nil
}

// Exists reports whether the registry knows the session, consulting the
// in-process cache before the store and priming it on a hit.
func (s *SessionService) Exists(sessionID string) (bool, error) {
	if s.existing != nil {
		if _, found := s.existing.Get("session:" + sessionID); found {
			return true, nil
		}
	}

	known, err := s.repo.Exists(sessionID)
	if err != nil {
		return false, err
	}
	if known && s.existing != nil {
		s.existing.SetWithExpiration("session:"+sessionID, true, 0)
	}
	return known, nil
}
