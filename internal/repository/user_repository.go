package repository

import (
	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	List() ([]models.User, error)
	Delete(id uint) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return apperrors.NewStorageUnavailableError("could not create user: " + err.Error())
	}
	return nil
}

func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("could not list users: " + err.Error())
	}
	return users, nil
}

func (r *GormUserRepository) Delete(id uint) error {
	result := r.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return apperrors.NewStorageUnavailableError("could not delete user: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("USER_NOT_FOUND", "user not found")
	}
	return nil
}
