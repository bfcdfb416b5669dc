package repository

import (
	"errors"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *models.ChatSession) error
	List() ([]models.ChatSession, error)
	Exists(sessionID string) (bool, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(session *models.ChatSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return apperrors.NewStorageUnavailableError("could not create session: " + err.Error())
	}
	return nil
}

func (r *GormSessionRepository) List() ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := r.db.Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("could not list sessions: " + err.Error())
	}
	return sessions, nil
}

func (r *GormSessionRepository) Exists(sessionID string) (bool, error) {
	var session models.ChatSession
	err := r.db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.NewStorageUnavailableError("could not look up session: " + err.Error())
	}
	return true, nil
}
