package service

import (
	"realtime-chat/backend/internal/models"
)

// HistoryService is the backfill read path used by clients after connecting
// and before (or concurrently with) joining live. A message persisted between
// the history fetch and the join taking effect may be missed or duplicated;
// that overlap is an accepted, documented gap at reconnection boundaries.
type HistoryService struct {
	messages *MessageService
}

func NewHistoryService(messages *MessageService) *HistoryService {
	return &HistoryService{messages: messages}
}

// Fetch returns the session backlog in the same order the relay persisted it.
func (s *HistoryService) Fetch(sessionID string) ([]models.Message, error) {
	return s.messages.ListBySession(sessionID)
}
