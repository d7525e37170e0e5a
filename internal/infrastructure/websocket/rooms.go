package websocket

import "sync"

// Rooms tracks which connections joined which room key.
type Rooms struct {
	mu      sync.RWMutex
	members map[string]map[*Client]struct{}
	joined  map[*Client]map[string]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[string]map[*Client]struct{}),
		joined:  make(map[*Client]map[string]struct{}),
	}
}

// Join is idempotent.
func (r *Rooms) Join(key string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.members[key] == nil {
		r.members[key] = make(map[*Client]struct{})
	}
	r.members[key][c] = struct{}{}

	if r.joined[c] == nil {
		r.joined[c] = make(map[string]struct{})
	}
	r.joined[c][key] = struct{}{}
}

func (r *Rooms) Leave(key string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leave(key, c)
}

func (r *Rooms) leave(key string, c *Client) {
	if set, ok := r.members[key]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.members, key)
		}
	}
	if keys, ok := r.joined[c]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(r.joined, c)
		}
	}
}

// LeaveAll drops c from every room and returns the keys it had joined.
func (r *Rooms) LeaveAll(c *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.joined[c]))
	for key := range r.joined[c] {
		keys = append(keys, key)
	}
	for _, key := range keys {
		r.leave(key, c)
	}
	return keys
}

// Members returns a snapshot of the room.
func (r *Rooms) Members(key string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.members[key]))
	for c := range r.members[key] {
		clients = append(clients, c)
	}
	return clients
}
