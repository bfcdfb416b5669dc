package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	bySession map[string][]models.Message
	err       error
}

func (f *fakeHistory) Fetch(sessionID string) ([]models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySession[sessionID], nil
}

func newMessageRouter(history *fakeHistory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	NewMessageHandler(history).RegisterRoutes(r)
	return r
}

func TestGetSessionMessagesPreservesOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{bySession: map[string][]models.Message{
		"s1": {
			{SessionID: "s1", Sender: "alice", Text: "first", Seq: 1, Timestamp: base},
			{SessionID: "s1", Sender: "bob", Text: "second", Seq: 2, Timestamp: base.Add(time.Second)},
		},
	}}
	r := newMessageRouter(history)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/s1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)
	assert.Less(t, messages[0].Seq, messages[1].Seq)
}

func TestGetSessionMessagesEmptyBacklog(t *testing.T) {
	history := &fakeHistory{bySession: map[string][]models.Message{}}
	r := newMessageRouter(history)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/unheard-of", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// An unknown session simply has no history yet.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSessionMessagesStorageFailure(t *testing.T) {
	history := &fakeHistory{err: apperrors.NewStorageUnavailableError("db down")}
	r := newMessageRouter(history)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/s1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeStorageUnavailable)
}
