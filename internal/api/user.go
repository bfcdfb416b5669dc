package api

import (
	"net/http"
	"strconv"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserDirectory is the user service surface the handler needs.
type UserDirectory interface {
	Create(req models.CreateUserRequest) (*models.User, error)
	List() ([]models.User, error)
	Delete(id uint) error
}

// UserHandler serves the user directory endpoints.
type UserHandler struct {
	users UserDirectory
}

func NewUserHandler(users UserDirectory) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/create-user", h.CreateUser)
	r.GET("/api/users", h.ListUsers)
	r.DELETE("/api/users/:id", h.DeleteUser)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError(err.Error()))
		return
	}

	user, err := h.users.Create(req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperrors.NewValidationError("invalid user id"))
		return
	}

	if err := h.users.Delete(uint(id)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
