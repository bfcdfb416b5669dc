package ws

import (
	"sync"

	"github.com/samber/lo"
)

// Conn is a live transport-level handle to one client. The relay only needs
// an identity and a non-blocking delivery attempt; tests supply fakes.
type Conn interface {
	ID() string
	Deliver(payload []byte) error
}

// Membership is the in-memory, process-local table of conn<->session edges.
// Edges exist only while the process runs; on restart clients must rejoin.
// Mutated by join/leave/disconnect, read by the broadcast step of submit.
type Membership struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]struct{}
	joins map[Conn]map[string]struct{}
}

func NewMembership() *Membership {
	return &Membership{
		rooms: make(map[string]map[Conn]struct{}),
		joins: make(map[Conn]map[string]struct{}),
	}
}

// Join adds the edge. No-op if the connection is already a member.
func (m *Membership) Join(conn Conn, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[sessionID]
	if !ok {
		room = make(map[Conn]struct{})
		m.rooms[sessionID] = room
	}
	room[conn] = struct{}{}

	joined, ok := m.joins[conn]
	if !ok {
		joined = make(map[string]struct{})
		m.joins[conn] = joined
	}
	joined[sessionID] = struct{}{}
}

// Leave removes the edge. Idempotent.
func (m *Membership) Leave(conn Conn, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeEdge(conn, sessionID)
}

// RemoveAll removes every edge for the connection, called on disconnect.
// Idempotent.
func (m *Membership) RemoveAll(conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for sessionID := range m.joins[conn] {
		m.removeEdge(conn, sessionID)
	}
}

// MembersOf returns a snapshot of the session's current members. Delivering
// to a member that disconnects right after the snapshot is a best-effort,
// ignorable failure.
func (m *Membership) MembersOf(sessionID string) []Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Keys(m.rooms[sessionID])
}

// IsMember reports whether the edge exists.
func (m *Membership) IsMember(conn Conn, sessionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.rooms[sessionID][conn]
	return ok
}

// ActiveSessions returns the number of sessions with at least one member.
func (m *Membership) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms)
}

// removeEdge drops one edge and any empty maps left behind. Caller must hold
// the write lock.
func (m *Membership) removeEdge(conn Conn, sessionID string) {
	if room, ok := m.rooms[sessionID]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(m.rooms, sessionID)
		}
	}
	if joined, ok := m.joins[conn]; ok {
		delete(joined, sessionID)
		if len(joined) == 0 {
			delete(m.joins, conn)
		}
	}
}
