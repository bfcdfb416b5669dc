package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	apperrors "realtime-chat/backend/pkg/errors"
	"realtime-chat/backend/pkg/logger"

	"github.com/gorilla/websocket"
)

// ErrConnGone is returned by Deliver when the connection has been closed or
// its send buffer is full. The relay treats it as a skippable delivery.
var ErrConnGone = errors.New("connection closed or backed up")

// Client is one live websocket connection. It implements Conn; the relay
// never touches the underlying socket.
type Client struct {
	id    string
	conn  *websocket.Conn
	send  chan []byte
	hub   *Hub
	relay *Relay
	log   *logger.Logger

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
	maxMsgSize int64

	mu     sync.Mutex
	closed bool
}

func (c *Client) ID() string { return c.id }

// Deliver queues a payload for the write pump without blocking the caller.
// Safe to call concurrently with close; after close it reports ErrConnGone
// instead of panicking on the closed channel.
func (c *Client) Deliver(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnGone
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return ErrConnGone
	}
}

// close marks the client dead and releases the write pump. Idempotent.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump consumes inbound envelopes until the connection drops, then
// unregisters. Events are handled inline so one connection's submissions
// reach the relay in the order it sent them.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.LogError(err, "websocket read failed", "conn_id", c.id)
			}
			break
		}

		var envelope inboundEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.log.Debug("dropping malformed frame", "conn_id", c.id, "error", err.Error())
			continue
		}

		c.handleEvent(envelope)
	}
}

func (c *Client) handleEvent(envelope inboundEnvelope) {
	switch envelope.Type {
	case EventJoin:
		var p JoinPayload
		if err := json.Unmarshal(envelope.Content, &p); err != nil {
			c.sendError(apperrors.NewValidationError("malformed join payload"))
			return
		}
		if err := c.relay.Join(c, p.SessionID); err != nil {
			c.sendError(err)
		}

	case EventLeave:
		var p JoinPayload
		if err := json.Unmarshal(envelope.Content, &p); err != nil {
			c.sendError(apperrors.NewValidationError("malformed leave payload"))
			return
		}
		c.relay.Leave(c, p.SessionID)

	case EventChat:
		var p SubmitPayload
		if err := json.Unmarshal(envelope.Content, &p); err != nil {
			c.sendError(apperrors.NewValidationError("malformed chat payload"))
			return
		}
		if err := c.relay.Submit(c, p); err != nil {
			c.sendError(err)
		}

	case EventPing:
		c.sendEnvelope(EventPong, nil)

	default:
		c.log.Debug("unknown event type", "conn_id", c.id, "type", envelope.Type)
	}
}

func (c *Client) sendEnvelope(eventType string, content interface{}) {
	payload, err := json.Marshal(outboundEnvelope{Type: eventType, Content: content})
	if err != nil {
		c.log.LogError(err, "envelope encode failed", "conn_id", c.id, "type", eventType)
		return
	}
	if err := c.Deliver(payload); err != nil {
		c.log.Debug("dropping outbound envelope", "conn_id", c.id, "type", eventType)
	}
}

// sendError reports a failure to this connection only, distinguishable from
// a normal broadcast by its envelope type.
func (c *Client) sendError(err error) {
	c.sendEnvelope(EventError, ErrorPayload{
		Code:    apperrors.GetErrorCode(err),
		Message: apperrors.GetErrorMessage(err),
	})
}

// WritePump drains the send channel onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

			// Flush anything already queued, one frame per message
			n := len(c.send)
			for i := 0; i < n; i++ {
				queued := <-c.send
				if err := c.conn.WriteMessage(websocket.TextMessage, queued); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
