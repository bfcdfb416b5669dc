package service

import (
	"realtime-chat/backend/internal/models"
	"realtime-chat/backend/internal/repository"
	apperrors "realtime-chat/backend/pkg/errors"
	"realtime-chat/backend/pkg/logger"
	"realtime-chat/backend/pkg/resilience"
)

// MessageService is the message store boundary the relay talks to. Required
// fields are checked here so a rejected submit never reaches the breaker or
// the order-key assignment; appends go through a circuit breaker so a dead
// backend fails fast as STORAGE_UNAVAILABLE.
type MessageService struct {
	repo    repository.MessageRepository
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

func NewMessageService(repo repository.MessageRepository, log *logger.Logger) *MessageService {
	return &MessageService{
		repo:    repo,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("message-store"), log),
		log:     log,
	}
}

// Append validates, assigns the order key and durably stores the message.
func (s *MessageService) Append(message *models.Message) (*models.Message, error) {
	if message.SessionID == "" {
		return nil, apperrors.NewValidationError("sessionId is required")
	}
	if message.Sender == "" {
		return nil, apperrors.NewValidationError("sender is required")
	}

	var stored *models.Message
	err := s.breaker.Execute(func() error {
		var appendErr error
		stored, appendErr = s.repo.Append(message)
		return appendErr
	})
	if err != nil {
		if err == resilience.ErrCircuitOpen {
			return nil, apperrors.NewStorageUnavailableError("message store unavailable")
		}
		return nil, err
	}
	return stored, nil
}

// ListBySession returns all messages for a session in ascending order key,
// oldest first.
func (s *MessageService) ListBySession(sessionID string) ([]models.Message, error) {
	return s.repo.ListBySession(sessionID)
}

// ListBySessionPaginated is the cursor extension point; ordering matches
// ListBySession.
func (s *MessageService) ListBySessionPaginated(sessionID string, limit, offset int) ([]models.Message, error) {
	return s.repo.ListBySessionPaginated(sessionID, limit, offset)
}
