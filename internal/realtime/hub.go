package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub owns the room -> subscriber-set mapping and is the only component that
// mutates it. Join enforces the static role permission table; leave and
// disconnect are unconditional. Broadcast only reads the mapping.
type Hub struct {
	// room -> map[clientID]*Client
	rooms  map[Room]map[string]*Client
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewHub creates a realtime hub with an empty subscriber mapping.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:  make(map[Room]map[string]*Client),
		logger: logger,
	}
}

// Join subscribes the client to a room if its role permits. A denied join
// never touches the subscriber set; the client is sent a redirect to the
// forbidden page instead of a transport error. Joining an already-joined
// room re-affirms membership. Returns whether the join was allowed.
func (h *Hub) Join(c *Client, room Room) bool {
	if !Allowed(c.User.Role, room) {
		h.logger.Warn("room join denied",
			zap.String("client_id", c.ID),
			zap.String("user_id", c.User.ID.String()),
			zap.String("role", string(c.User.Role)),
			zap.String("room", string(room)),
		)
		c.Send(EventRedirect, RedirectPayload{URL: ForbiddenPath})
		return false
	}

	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][c.ID] = c
	c.joined[room] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("room joined",
		zap.String("client_id", c.ID),
		zap.String("user_id", c.User.ID.String()),
		zap.String("room", string(room)),
	)
	return true
}

// Leave unsubscribes the client from a room. No permission check is needed to
// leave; leaving a room not currently joined is a no-op.
func (h *Hub) Leave(c *Client, room Room) {
	h.mu.Lock()
	left := h.leaveLocked(c, room)
	h.mu.Unlock()

	if left {
		h.logger.Info("room left",
			zap.String("client_id", c.ID),
			zap.String("user_id", c.User.ID.String()),
			zap.String("room", string(room)),
		)
	}
}

// Disconnect removes the client from every room it joined and clears its
// subscription set, so no stale subscriber references survive the connection.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	var rooms []Room
	for room := range c.joined {
		if h.leaveLocked(c, room) {
			rooms = append(rooms, room)
		}
	}
	h.mu.Unlock()

	for _, room := range rooms {
		h.logger.Info("room left on disconnect",
			zap.String("client_id", c.ID),
			zap.String("user_id", c.User.ID.String()),
			zap.String("room", string(room)),
		)
	}
	h.logger.Info("client disconnected",
		zap.String("client_id", c.ID),
		zap.String("user_id", c.User.ID.String()),
	)
}

// leaveLocked removes the client from one room. Caller holds h.mu.
func (h *Hub) leaveLocked(c *Client, room Room) bool {
	clients, ok := h.rooms[room]
	if !ok {
		delete(c.joined, room)
		return false
	}
	if _, ok := clients[c.ID]; !ok {
		delete(c.joined, room)
		return false
	}
	delete(clients, c.ID)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
	delete(c.joined, room)
	return true
}

// Broadcast sends an event to every client currently subscribed to the room.
// A room with no subscribers is not an error; the update is simply dropped.
func (h *Hub) Broadcast(room Room, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case nil:
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for _, c := range h.rooms[room] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// SubscriberCount returns the number of clients currently in a room.
func (h *Hub) SubscriberCount(room Room) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// InRoom reports whether the client is currently subscribed to the room.
func (h *Hub) InRoom(c *Client, room Room) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[room][c.ID]
	return ok
}
