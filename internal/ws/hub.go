package ws

import (
	"net/http"
	"time"

	"realtime-chat/backend/pkg/config"
	"realtime-chat/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// Hub owns the set of live clients and tears down membership on disconnect.
// Broadcast itself happens in the relay under the session lock; the hub only
// tracks connection lifecycle.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	relay      *Relay
	log        *logger.Logger
}

func NewHub(relay *Relay, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		relay:      relay,
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			activeConnections.Inc()
			h.log.Info("client registered", "conn_id", client.ID())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.relay.Disconnect(client)
				client.close()
				delete(h.clients, client)
				activeConnections.Dec()
				h.log.Info("client unregistered", "conn_id", client.ID())
			}
		}
	}
}

// ConnectionCount is read by the health endpoint. Approximate: the hub loop
// may be mid-update, which is fine for reporting.
func (h *Hub) ConnectionCount() int {
	return len(h.clients)
}

// ServeWs upgrades the request and starts the client pumps.
func ServeWs(hub *Hub, relay *Relay, log *logger.Logger, c *gin.Context) {
	clientID := c.Query("clientId")
	if clientID == "" {
		clientID = uuid.New().String()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.LogError(err, "websocket upgrade failed", "conn_id", clientID)
		return
	}
	conn.EnableWriteCompression(true)

	cfg := config.Get()
	client := &Client{
		id:         clientID,
		conn:       conn,
		send:       make(chan []byte, cfg.Relay.SendBuffer),
		hub:        hub,
		relay:      relay,
		log:        log,
		writeWait:  cfg.Relay.WriteWait,
		pongWait:   cfg.Relay.PongWait,
		pingPeriod: cfg.Relay.PongWait * 9 / 10,
		maxMsgSize: cfg.Relay.MaxMessageSize,
	}

	hub.register <- client
	log.Info("websocket connection established", "conn_id", clientID)

	go client.WritePump()
	go client.ReadPump()
}
