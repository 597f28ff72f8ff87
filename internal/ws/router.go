package ws

import (
	"encoding/json"
	"log"

	"github.com/codepair/server/internal/metrics"
	"github.com/codepair/server/internal/protocol"
)

// route dispatches one decoded frame. The target room comes from the
// payload, not from the sender's session; presence state is consulted only
// to check that document mutations land on a room that exists.
func (h *Hub) route(c *Client, env *protocol.Envelope) {
	metrics.EventsIn.WithLabelValues(env.Event).Inc()

	switch env.Event {
	case protocol.EventJoin:
		var p protocol.JoinPayload
		if !decodePayload(c, env, &p) {
			return
		}
		h.handleJoin(c, p)

	case protocol.EventLeaveRoom:
		h.handleLeave(c)

	case protocol.EventCodeChange:
		var p protocol.CodeChangePayload
		if !decodePayload(c, env, &p) {
			return
		}
		h.handleCodeChange(c, p)

	case protocol.EventCursorMove:
		var p protocol.CursorMovePayload
		if !decodePayload(c, env, &p) {
			return
		}
		h.relay(c, p.RoomID, protocol.EventCursorUpdate, protocol.CursorUpdatePayload{
			UserID:   p.UserID,
			Position: p.Position,
		}, true)

	case protocol.EventSelectionChange:
		var p protocol.SelectionChangePayload
		if !decodePayload(c, env, &p) {
			return
		}
		h.relay(c, p.RoomID, protocol.EventSelectionUpdate, protocol.SelectionUpdatePayload{
			UserID:    p.UserID,
			Selection: p.Selection,
		}, true)

	case protocol.EventTyping:
		var p protocol.TypingPayload
		if !decodePayload(c, env, &p) {
			return
		}
		h.relay(c, p.RoomID, protocol.EventUserTyping, p.UserName, true)

	case protocol.EventLanguageChange:
		var p protocol.LanguageChangePayload
		if !decodePayload(c, env, &p) {
			return
		}
		// Room-wide fact: the sender observes it too, confirming acceptance
		h.relay(c, p.RoomID, protocol.EventLanguageUpdate, p.Language, false)
	}
}

// handleCodeChange applies last-writer-wins to the room document and
// relays the new text to everyone but the sender. A change for a room not
// in the registry is dropped without creating it; the protocol has no
// error channel back to the sender.
func (h *Hub) handleCodeChange(c *Client, p protocol.CodeChangePayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.registry.Get(p.RoomID)
	if !ok {
		log.Printf("Dropping code change for unknown room %q", p.RoomID)
		return
	}
	rm.Document = p.Code

	if h.store != nil {
		h.store.RecordEdit(p.RoomID)
	}

	data, err := protocol.Encode(protocol.EventCodeUpdate, p.Code)
	if err != nil {
		log.Printf("Failed to encode code update for room %q: %v", p.RoomID, err)
		return
	}
	h.broadcastRoom(p.RoomID, c, protocol.EventCodeUpdate, data)
}

// relay forwards an ephemeral event to a room without touching the
// registry. Broadcasting to a room with no subscribers is a no-op.
func (h *Hub) relay(c *Client, roomID, event string, payload any, excludeSender bool) {
	data, err := protocol.Encode(event, payload)
	if err != nil {
		log.Printf("Failed to encode %s for room %q: %v", event, roomID, err)
		return
	}

	exclude := c
	if !excludeSender {
		exclude = nil
	}

	h.mu.Lock()
	h.broadcastRoom(roomID, exclude, event, data)
	h.mu.Unlock()
}

func decodePayload(c *Client, env *protocol.Envelope, v any) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		log.Printf("Invalid %s payload from client %s: %v", env.Event, c.id, err)
		return false
	}
	return true
}
