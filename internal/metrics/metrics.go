package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "codepair"

var (
	// ConnectedClients is the number of open websocket connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connected_clients",
		Help:      "Number of open websocket connections",
	})

	// ActiveRooms is the number of rooms held in the registry.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_rooms",
		Help:      "Number of rooms currently in the registry",
	})

	// EventsIn counts inbound client events by event name.
	EventsIn = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_in_total",
		Help:      "Inbound client events processed",
	}, []string{"event"})

	// EventsOut counts frames delivered to clients by event name.
	EventsOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_out_total",
		Help:      "Outbound frames delivered to clients",
	}, []string{"event"})

	// DroppedClients counts connections dropped for falling behind.
	DroppedClients = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_clients_total",
		Help:      "Connections dropped because their send buffer filled",
	})

	// RateLimited counts frames discarded by the per-connection limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_frames_total",
		Help:      "Inbound frames discarded by the rate limiter",
	})
)
