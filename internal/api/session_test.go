package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRegistry struct {
	sessions []models.ChatSession
	err      error
}

func (f *fakeSessionRegistry) Create() (*models.ChatSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	session := models.ChatSession{SessionID: "generated-id"}
	f.sessions = append(f.sessions, session)
	return &session, nil
}

func (f *fakeSessionRegistry) List() ([]models.ChatSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions, nil
}

func newSessionRouter(registry *fakeSessionRegistry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	NewSessionHandler(registry).RegisterRoutes(r)
	return r
}

func TestCreateChatReturnsSessionID(t *testing.T) {
	registry := &fakeSessionRegistry{}
	r := newSessionRouter(registry)

	req := httptest.NewRequest(http.MethodPost, "/api/create-chat", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "generated-id", resp["sessionId"])
}

func TestCreateChatStorageFailure(t *testing.T) {
	registry := &fakeSessionRegistry{err: apperrors.NewStorageUnavailableError("db down")}
	r := newSessionRouter(registry)

	req := httptest.NewRequest(http.MethodPost, "/api/create-chat", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeStorageUnavailable)
}

func TestListChatSessions(t *testing.T) {
	registry := &fakeSessionRegistry{sessions: []models.ChatSession{
		{SessionID: "a"}, {SessionID: "b"},
	}}
	r := newSessionRouter(registry)

	req := httptest.NewRequest(http.MethodGet, "/api/chat-sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var sessions []models.ChatSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 2)
}
