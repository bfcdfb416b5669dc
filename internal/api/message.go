package api

import (
	"net/http"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// HistoryProvider is the backfill read path behind the messages endpoint.
type HistoryProvider interface {
	Fetch(sessionID string) ([]models.Message, error)
}

// MessageHandler serves message history for late joiners and reconnects.
type MessageHandler struct {
	history HistoryProvider
}

func NewMessageHandler(history HistoryProvider) *MessageHandler {
	return &MessageHandler{history: history}
}

func (h *MessageHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/messages/:sessionId", h.GetSessionMessages)
}

// GetSessionMessages returns the session backlog, oldest first, in the order
// the relay persisted it.
func (h *MessageHandler) GetSessionMessages(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.Error(apperrors.NewValidationError("sessionId is required"))
		return
	}

	messages, err := h.history.Fetch(sessionID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
