package realtime

import "sync"

// Hub tracks which clients are joined to which rooms and fans events out.
// Rooms exist implicitly while at least one client is joined; membership
// is connection-scoped and vanishes on unregister.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range c.sub.rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Client]struct{})
			h.rooms[room] = members
		}
		members[c] = struct{}{}
	}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range c.sub.rooms {
		members, ok := h.rooms[room]
		if !ok {
			continue
		}
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast queues the event on every member of the room, including the
// sender. Delivery goes through each client's write pump, so a slow peer
// never blocks the room.
func (h *Hub) Broadcast(room, event string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		c.Emit(event, data)
	}
}

// Online reports the member count of a room.
func (h *Hub) Online(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
