package ws

import (
	"log"

	"github.com/codepair/server/internal/metrics"
	"github.com/codepair/server/internal/protocol"
	"github.com/codepair/server/internal/room"
)

// handleJoin moves a connection into a room: implicit leave of the previous
// room, lazy room creation, member-list broadcast, and a private document
// snapshot push so a late joiner synchronizes immediately.
func (h *Hub) handleJoin(c *Client, p protocol.JoinPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.roomID != "" {
		h.leaveRoom(c)
	}

	c.roomID = p.RoomID
	c.userName = p.UserName

	rm, created := h.registry.GetOrCreate(p.RoomID)
	rm.AddMember(c.id, p.UserName)

	if h.subscribers[p.RoomID] == nil {
		h.subscribers[p.RoomID] = make(map[*Client]bool)
	}
	h.subscribers[p.RoomID][c] = true

	if created {
		metrics.ActiveRooms.Set(float64(h.registry.Len()))
	}
	if h.store != nil {
		h.store.RecordJoin(p.RoomID)
	}

	h.broadcastMemberList(rm)

	// Snapshot push to the joiner only; this is what keeps a late joiner
	// consistent without any merge machinery.
	if data, err := protocol.Encode(protocol.EventCodeUpdate, rm.Document); err == nil {
		h.sendTo(c, protocol.EventCodeUpdate, data)
	}

	log.Printf("User %q joined room %q (members: %d)", p.UserName, p.RoomID, rm.MemberCount())
}

// handleLeave handles an explicit leaveRoom request. Leaving while not in
// a room is a no-op apart from clearing the session fields.
func (h *Hub) handleLeave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.roomID != "" {
		log.Printf("User %q left room %q", c.userName, c.roomID)
		h.leaveRoom(c)
	}
	c.roomID = ""
	c.userName = ""
}

// handleDisconnect finalizes a connection: same member-removal and
// broadcast effect as an explicit leave, then the send channel is closed.
// Caller holds the lock.
func (h *Hub) handleDisconnect(c *Client) {
	if c.roomID != "" {
		h.leaveRoom(c)
		c.roomID = ""
		c.userName = ""
	}
	delete(h.clients, c)
	close(c.send)
}

// leaveRoom removes the connection from its current room's member set and
// broadcast group and announces the updated member list to whoever is
// left. Caller holds the lock; c.roomID must be non-empty.
func (h *Hub) leaveRoom(c *Client) {
	if subs, ok := h.subscribers[c.roomID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.subscribers, c.roomID)
		}
	}

	rm, ok := h.registry.Get(c.roomID)
	if !ok {
		return
	}
	rm.RemoveMember(c.id)
	h.broadcastMemberList(rm)
}

// broadcastMemberList sends the full member-name snapshot to everyone in
// the room, sender included. Caller holds the lock.
func (h *Hub) broadcastMemberList(rm *room.Room) {
	data, err := protocol.Encode(protocol.EventUserJoined, rm.MemberNames())
	if err != nil {
		log.Printf("Failed to encode member list for room %q: %v", rm.ID, err)
		return
	}
	h.broadcastRoom(rm.ID, nil, protocol.EventUserJoined, data)
}
