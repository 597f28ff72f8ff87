package room

import (
	"time"
)

// New rooms start with this document so joiners never see an empty editor
const DefaultDocument = "// start code here"

// A participant in a room, keyed by connection rather than display name so
// two people using the same name cannot evict each other.
type Member struct {
	ConnID   string
	Name     string
	JoinedAt time.Time
}

// A collaborative editing session
type Room struct {
	ID       string
	Document string

	members map[string]Member
	order   []string // connection IDs in join order

	// Set when the last member leaves, zero while occupied
	emptySince time.Time
}

func newRoom(id string) *Room {
	return &Room{
		ID:       id,
		Document: DefaultDocument,
		members:  make(map[string]Member),
	}
}

// Adds a member under its connection ID
func (r *Room) AddMember(connID, name string) {
	if _, ok := r.members[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.members[connID] = Member{ConnID: connID, Name: name, JoinedAt: time.Now()}
	r.emptySince = time.Time{}
}

// Removes the member for connID. Returns false if it was not present.
func (r *Room) RemoveMember(connID string) bool {
	if _, ok := r.members[connID]; !ok {
		return false
	}
	delete(r.members, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if len(r.members) == 0 {
		r.emptySince = time.Now()
	}
	return true
}

func (r *Room) MemberCount() int {
	return len(r.members)
}

// Display names in join order, deduplicated. This is the userJoined
// snapshot payload: a name appears once no matter how many connections
// share it, and drops out only when its last connection leaves.
func (r *Room) MemberNames() []string {
	names := make([]string, 0, len(r.order))
	seen := make(map[string]bool, len(r.order))
	for _, id := range r.order {
		name := r.members[id].Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Holds every live room. The registry is not safe for concurrent use on
// its own; the hub owns it and serializes access.
type Registry struct {
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (g *Registry) Get(id string) (*Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

// Returns the room for id, creating it with the placeholder document if it
// does not exist yet. The second result reports whether it was created.
func (g *Registry) GetOrCreate(id string) (*Room, bool) {
	if r, ok := g.rooms[id]; ok {
		return r, false
	}
	r := newRoom(id)
	g.rooms[id] = r
	return r, true
}

func (g *Registry) Len() int {
	return len(g.rooms)
}

// Rooms with at least one member, with their member counts
func (g *Registry) Occupied() map[string]int {
	occupied := make(map[string]int)
	for id, r := range g.rooms {
		if !r.Empty() {
			occupied[id] = r.MemberCount()
		}
	}
	return occupied
}

// Removes rooms that have had zero members for longer than ttl and returns
// their IDs. An evicted room's document is gone; a later join recreates
// the room with the placeholder.
func (g *Registry) EvictIdle(ttl time.Duration, now time.Time) []string {
	var evicted []string
	for id, r := range g.rooms {
		if r.Empty() && !r.emptySince.IsZero() && now.Sub(r.emptySince) >= ttl {
			delete(g.rooms, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
