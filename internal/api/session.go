package api

import (
	"net/http"

	"realtime-chat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SessionRegistry is the session service surface the handler needs.
type SessionRegistry interface {
	Create() (*models.ChatSession, error)
	List() ([]models.ChatSession, error)
}

// SessionHandler serves the session registry endpoints. Sessions are created
// with opaque generated identifiers and never deleted here.
type SessionHandler struct {
	sessions SessionRegistry
}

func NewSessionHandler(sessions SessionRegistry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/create-chat", h.CreateSession)
	r.GET("/api/chat-sessions", h.ListSessions)
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.sessions.Create()
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": session.SessionID})
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List()
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}
