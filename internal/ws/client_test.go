package ws

import (
	"encoding/json"
	"testing"

	apperrors "realtime-chat/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareClient(relay *Relay, buffer int) *Client {
	return &Client{
		id:    "test-client",
		send:  make(chan []byte, buffer),
		relay: relay,
		log:   testLogger(),
	}
}

func TestDeliverAfterCloseReturnsErrConnGone(t *testing.T) {
	c := newBareClient(nil, 1)
	c.close()

	err := c.Deliver([]byte("payload"))
	assert.ErrorIs(t, err, ErrConnGone)
}

func TestDeliverOnFullBufferDropsInsteadOfBlocking(t *testing.T) {
	c := newBareClient(nil, 1)

	require.NoError(t, c.Deliver([]byte("first")))
	err := c.Deliver([]byte("second"))
	assert.ErrorIs(t, err, ErrConnGone)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := newBareClient(nil, 1)

	c.close()
	assert.NotPanics(t, func() { c.close() })
}

// drainEnvelope reads one queued frame off the client's send channel.
func drainEnvelope(t *testing.T, c *Client) outboundEnvelope {
	t.Helper()
	select {
	case frame := <-c.send:
		var env struct {
			Type    string          `json:"type"`
			Content json.RawMessage `json:"content"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))
		return outboundEnvelope{Type: env.Type, Content: env.Content}
	default:
		t.Fatal("no envelope queued")
		return outboundEnvelope{}
	}
}

func TestHandleEventPingAnswersPong(t *testing.T) {
	c := newBareClient(nil, 4)

	c.handleEvent(inboundEnvelope{Type: EventPing})

	env := drainEnvelope(t, c)
	assert.Equal(t, EventPong, env.Type)
}

func TestHandleEventMalformedChatReportsError(t *testing.T) {
	relay, _ := newTestRelay(Config{})
	c := newBareClient(relay, 4)

	c.handleEvent(inboundEnvelope{Type: EventChat, Content: json.RawMessage(`"not an object"`)})

	env := drainEnvelope(t, c)
	require.Equal(t, EventError, env.Type)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(env.Content.(json.RawMessage), &p))
	assert.Equal(t, apperrors.CodeValidationFailed, p.Code)
}

func TestHandleEventChatErrorStaysOnOriginatingConnection(t *testing.T) {
	relay, _ := newTestRelay(Config{})

	peer := newFakeConn("peer")
	require.NoError(t, relay.Join(peer, "s1"))

	c := newBareClient(relay, 4)
	require.NoError(t, relay.Join(c, "s1"))

	// Missing sender fails validation; only the originating client hears
	// about it.
	c.handleEvent(inboundEnvelope{Type: EventChat, Content: json.RawMessage(`{"sessionId":"s1"}`)})

	env := drainEnvelope(t, c)
	assert.Equal(t, EventError, env.Type)
	assert.Empty(t, peer.received(t))
}

func TestHandleEventJoinThenChatReachesPeers(t *testing.T) {
	relay, store := newTestRelay(Config{})

	peer := newFakeConn("peer")
	require.NoError(t, relay.Join(peer, "s1"))

	c := newBareClient(relay, 4)
	c.handleEvent(inboundEnvelope{Type: EventJoin, Content: json.RawMessage(`{"sessionId":"s1"}`)})
	c.handleEvent(inboundEnvelope{Type: EventChat, Content: json.RawMessage(`{"sessionId":"s1","sender":"alice","text":"hi"}`)})

	assert.Equal(t, 1, store.count())
	require.Len(t, peer.received(t), 1)

	// The sender got the echoed broadcast too.
	env := drainEnvelope(t, c)
	assert.Equal(t, EventChat, env.Type)
}
