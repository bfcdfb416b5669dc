package service

import (
	"fmt"

	"realtime-chat/backend/internal/models"
	"realtime-chat/backend/internal/repository"

	"github.com/google/uuid"
)

// UserService is plain directory CRUD; no business rules are enforced on
// user records here. Message senders are never validated against this table.
type UserService struct {
	repo    repository.UserRepository
	baseURL string
}

func NewUserService(repo repository.UserRepository, baseURL string) *UserService {
	return &UserService{repo: repo, baseURL: baseURL}
}

// Create stores a directory entry and assigns its shareable chat link.
func (s *UserService) Create(req models.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		Link:        fmt.Sprintf("%s/chat/%s", s.baseURL, uuid.New().String()),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List() ([]models.User, error) {
	return s.repo.List()
}

func (s *UserService) Delete(id uint) error {
	return s.repo.Delete(id)
}
