package ws

import (
	"log"
	"sync"
	"time"

	"github.com/codepair/server/internal/metrics"
	"github.com/codepair/server/internal/protocol"
	"github.com/codepair/server/internal/room"
	"github.com/codepair/server/internal/store"
)

const janitorInterval = time.Minute

// Tracks every connection and room and broadcasts events between clients.
// All registry mutation happens on the Run goroutine: register, unregister
// and inbound frames are serialized through the channels below, so
// broadcasts in a room are observed in the order the originating events
// were processed. The mutex exists only for read-side snapshots taken by
// the HTTP API.
type Hub struct {
	registry *room.Registry

	// Open connections whose send channel is still writable
	clients map[*Client]bool

	// Broadcast groups: room ID to subscribed connections
	subscribers map[string]map[*Client]bool

	// Register requests from new connections
	register chan *Client

	// Unregister requests on transport teardown
	unregister chan *Client

	// Decoded frames from client read pumps
	inbound chan *inboundFrame

	store   *store.Store // nil when persistence is disabled
	idleTTL time.Duration

	mu   sync.RWMutex
	done chan struct{}
}

type inboundFrame struct {
	client *Client
	env    *protocol.Envelope
}

// NewHub creates a hub around the given registry. st may be nil; idleTTL
// controls how long an empty room keeps its document before eviction.
func NewHub(registry *room.Registry, st *store.Store, idleTTL time.Duration) *Hub {
	return &Hub{
		registry:    registry,
		clients:     make(map[*Client]bool),
		subscribers: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inbound:     make(chan *inboundFrame, 256),
		store:       st,
		idleTTL:     idleTTL,
		done:        make(chan struct{}),
	}
}

func (h *Hub) Run() {
	janitor := time.NewTicker(janitorInterval)
	defer janitor.Stop()

	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()

			metrics.ConnectedClients.Set(float64(clientCount))
			log.Printf("Client %s connected (total: %d)", client.id, clientCount)

		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				h.handleDisconnect(client)
			}
			clientCount := len(h.clients)
			h.mu.Unlock()

			metrics.ConnectedClients.Set(float64(clientCount))
			log.Printf("Client %s disconnected (total: %d)", client.id, clientCount)

		case frame := <-h.inbound:
			h.route(frame.client, frame.env)

		case <-janitor.C:
			h.mu.Lock()
			evicted := h.registry.EvictIdle(h.idleTTL, time.Now())
			for _, id := range evicted {
				delete(h.subscribers, id)
			}
			roomCount := h.registry.Len()
			h.mu.Unlock()

			if len(evicted) > 0 {
				metrics.ActiveRooms.Set(float64(roomCount))
				log.Printf("Evicted %d idle rooms", len(evicted))
			}
		}
	}
}

// Stop terminates the Run loop.
func (h *Hub) Stop() {
	close(h.done)
}

// sendTo queues an outbound frame for one client. Caller holds the lock.
func (h *Hub) sendTo(c *Client, event string, data []byte) {
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
		metrics.EventsOut.WithLabelValues(event).Inc()
	default:
		h.drop(c)
	}
}

// broadcastRoom fans a frame out to every subscriber of roomID, skipping
// exclude when non-nil. Caller holds the lock.
func (h *Hub) broadcastRoom(roomID string, exclude *Client, event string, data []byte) {
	for client := range h.subscribers[roomID] {
		if client != exclude {
			h.sendTo(client, event, data)
		}
	}
}

// drop disconnects a client that cannot keep up with its send buffer. It
// performs the same cleanup as a transport disconnect so the member list
// never shows a dead connection. Caller holds the lock.
func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	log.Printf("Dropping slow client %s in room %q", c.id, c.roomID)
	metrics.DroppedClients.Inc()
	h.handleDisconnect(c)
}

// Read-side snapshots for the HTTP API

// GetClientCount returns the number of open connections.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetRoomCount returns the number of rooms with at least one member.
func (h *Hub) GetRoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.registry.Occupied())
}

// GetActiveRooms returns member counts for every occupied room.
func (h *Hub) GetActiveRooms() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.registry.Occupied()
}

// GetRoomMembers returns the display-name snapshot for a room, or nil if
// the room is not in the registry.
func (h *Hub) GetRoomMembers(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rm, ok := h.registry.Get(roomID)
	if !ok {
		return nil
	}
	return rm.MemberNames()
}

// GetRoomDocument returns the current document for a room.
func (h *Hub) GetRoomDocument(roomID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rm, ok := h.registry.Get(roomID)
	if !ok {
		return "", false
	}
	return rm.Document, true
}
