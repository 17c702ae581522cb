package server

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Member is one authenticated socket and the set of rooms it has
// joined. Membership is ephemeral: a server restart drops everything
// and clients must rejoin.
type Member struct {
	UserID string

	conn    *websocket.Conn
	writeMu sync.Mutex
	rooms   map[string]struct{}
}

func (m *Member) send(data []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is the process-wide connection registry. All mutation goes
// through Register/Unregister/Join/Leave so the mutation sites stay
// enumerable; handlers for different sockets interleave freely on it.
type Hub struct {
	mu      sync.RWMutex
	members map[*Member]struct{}
}

func NewHub() *Hub {
	return &Hub{members: make(map[*Member]struct{})}
}

func (h *Hub) Register(conn *websocket.Conn, userID string) *Member {
	m := &Member{
		UserID: userID,
		conn:   conn,
		rooms:  make(map[string]struct{}),
	}
	h.mu.Lock()
	h.members[m] = struct{}{}
	h.mu.Unlock()
	log.Printf("[hub] registered %s (%s)", userID, conn.RemoteAddr())
	return m
}

// Unregister drops the member. No leave notification goes to peers; a
// vanished connection simply stops receiving broadcasts.
func (h *Hub) Unregister(m *Member) {
	h.mu.Lock()
	delete(h.members, m)
	h.mu.Unlock()
	log.Printf("[hub] unregistered %s", m.UserID)
}

func (h *Hub) Join(m *Member, roomID string) {
	h.mu.Lock()
	m.rooms[roomID] = struct{}{}
	h.mu.Unlock()
	log.Printf("[hub] %s joined room %s", m.UserID, roomID)
}

func (h *Hub) Leave(m *Member, roomID string) {
	h.mu.Lock()
	delete(m.rooms, roomID)
	h.mu.Unlock()
	log.Printf("[hub] %s left room %s", m.UserID, roomID)
}

// Broadcast fans a frame out to every current member of the room,
// including the sender. Sends are unconditional; there is no
// backpressure beyond the transport's own.
func (h *Hub) Broadcast(roomID string, data []byte) {
	h.mu.RLock()
	targets := make([]*Member, 0, len(h.members))
	for m := range h.members {
		if _, ok := m.rooms[roomID]; ok {
			targets = append(targets, m)
		}
	}
	h.mu.RUnlock()

	for _, m := range targets {
		if err := m.send(data); err != nil {
			log.Printf("[hub] send to %s failed: %v", m.UserID, err)
		}
	}
}

// RoomSize reports the live membership of a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for m := range h.members {
		if _, ok := m.rooms[roomID]; ok {
			n++
		}
	}
	return n
}

// Close drops all members, closing their sockets.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for m := range h.members {
		m.conn.Close()
		delete(h.members, m)
	}
}
