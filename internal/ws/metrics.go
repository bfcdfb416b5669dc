package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_messages_total",
		Help: "Messages accepted and broadcast by the relay.",
	})

	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_validation_failures_total",
		Help: "Submits rejected for missing required fields.",
	})

	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_persist_failures_total",
		Help: "Messages the store failed to persist.",
	})

	broadcastDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_broadcast_drops_total",
		Help: "Deliveries skipped because the target connection was gone or backed up.",
	})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_active_connections",
		Help: "Currently registered websocket connections.",
	})
)
