package service

import (
	"io"
	"testing"
	"time"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"
	"realtime-chat/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	appendCalls int
	failWith    error
	messages    []models.Message
	nextSeq     uint64
}

func (r *fakeMessageRepo) Append(message *models.Message) (*models.Message, error) {
	r.appendCalls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.nextSeq++
	message.Seq = r.nextSeq
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	r.messages = append(r.messages, *message)
	return message, nil
}

func (r *fakeMessageRepo) ListBySession(sessionID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListBySessionPaginated(sessionID string, limit, offset int) ([]models.Message, error) {
	all, _ := r.ListBySession(sessionID)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
}

func TestAppendAssignsOrderKey(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, testLogger())

	stored, err := svc.Append(&models.Message{SessionID: "s1", Sender: "alice", Text: "hi"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), stored.Seq)
	assert.False(t, stored.Timestamp.IsZero())
}

func TestAppendRejectsMissingFieldsBeforeStore(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, testLogger())

	_, err := svc.Append(&models.Message{Sender: "alice"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	_, err = svc.Append(&models.Message{SessionID: "s1"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	// The repository never saw either attempt, so the breaker never
	// counted a failure.
	assert.Equal(t, 0, repo.appendCalls)
}

func TestAppendOpensBreakerAfterRepeatedFailures(t *testing.T) {
	repo := &fakeMessageRepo{failWith: apperrors.NewStorageUnavailableError("db down")}
	svc := NewMessageService(repo, testLogger())

	for i := 0; i < 5; i++ {
		_, err := svc.Append(&models.Message{SessionID: "s1", Sender: "alice", Text: "m"})
		require.Error(t, err)
	}
	callsBefore := repo.appendCalls

	// The circuit is now open: the next append short-circuits and the
	// repository is not touched.
	_, err := svc.Append(&models.Message{SessionID: "s1", Sender: "alice", Text: "m"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageUnavailable))
	assert.Equal(t, callsBefore, repo.appendCalls)
}

func TestListBySessionFiltersBySession(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, testLogger())

	_, err := svc.Append(&models.Message{SessionID: "s1", Sender: "a", Text: "one"})
	require.NoError(t, err)
	_, err = svc.Append(&models.Message{SessionID: "s2", Sender: "b", Text: "two"})
	require.NoError(t, err)

	got, err := svc.ListBySession("s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Text)
}
