package ws

import (
	"sync"
	"time"

	"giglink_backend/internal/logger"
)

// Manager is the in-memory connection registry: which connections belong to
// which user (the personal channel) and which connections have joined which
// conversation room. It is rebuilt empty on process restart; presence is
// derived from it and never persisted.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // userID -> connections
	rooms   map[string]map[*Client]struct{} // conversationID -> connections
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register binds an authenticated connection to its user's personal channel.
// When it is the user's first live connection, everyone else is told the user
// came online.
func (m *Manager) Register(c *Client) {
	m.mu.Lock()
	if m.clients[c.UserID] == nil {
		m.clients[c.UserID] = make(map[*Client]struct{})
	}
	first := len(m.clients[c.UserID]) == 0
	m.clients[c.UserID][c] = struct{}{}
	m.mu.Unlock()

	logger.WSLog("register", c.UserID)

	if first {
		m.broadcastPresence(EventUserOnline, c.UserID)
	}
}

// Unregister removes the connection from its personal channel and every
// conversation room it joined, closes its send channel, and broadcasts
// user_offline when this was the user's last connection.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	conns, ok := m.clients[c.UserID]
	if !ok {
		m.mu.Unlock()
		return
	}
	if _, registered := conns[c]; !registered {
		m.mu.Unlock()
		return
	}

	delete(conns, c)
	last := len(conns) == 0
	if last {
		delete(m.clients, c.UserID)
	}
	for roomID, members := range m.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(m.rooms, roomID)
		}
	}
	close(c.send)
	m.mu.Unlock()

	logger.WSLog("unregister", c.UserID)

	if last {
		m.broadcastPresence(EventUserOffline, c.UserID)
	}
}

// JoinRoom subscribes the connection to a conversation channel. Idempotent; a
// connection may be joined to any number of rooms at once.
func (m *Manager) JoinRoom(c *Client, conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rooms[conversationID] == nil {
		m.rooms[conversationID] = make(map[*Client]struct{})
	}
	m.rooms[conversationID][c] = struct{}{}
}

func (m *Manager) LeaveRoom(c *Client, conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if members, ok := m.rooms[conversationID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(m.rooms, conversationID)
		}
	}
}

// BroadcastToConversation delivers an event to every connection currently
// joined to the conversation room.
func (m *Manager) BroadcastToConversation(conversationID string, event Event) {
	m.mu.RLock()
	members := make([]*Client, 0, len(m.rooms[conversationID]))
	for c := range m.rooms[conversationID] {
		members = append(members, c)
	}
	m.mu.RUnlock()

	for _, c := range members {
		m.deliver(c, event)
	}
}

// BroadcastToUser delivers an event to every connection on the user's
// personal channel.
func (m *Manager) BroadcastToUser(userID string, event Event) {
	m.mu.RLock()
	conns := make([]*Client, 0, len(m.clients[userID]))
	for c := range m.clients[userID] {
		conns = append(conns, c)
	}
	m.mu.RUnlock()

	for _, c := range conns {
		m.deliver(c, event)
	}
}

// broadcastPresence tells every connection of every other user that userID
// changed presence.
func (m *Manager) broadcastPresence(event string, userID string) {
	payload := Event{Event: event, Data: PresenceEvent{UserID: userID, Timestamp: time.Now()}}

	m.mu.RLock()
	var targets []*Client
	for uid, conns := range m.clients {
		if uid == userID {
			continue
		}
		for c := range conns {
			targets = append(targets, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range targets {
		m.deliver(c, payload)
	}
}

// deliver enqueues without blocking: a connection whose send buffer is full is
// kicked, because a stuck client must never stall broadcasts to the others. A
// lost delivery is not an error; clients reconcile via history fetch on
// reconnect.
//
// The send happens under the read lock: Unregister closes c.send only under
// the write lock after removing the client from the registry, so a client
// still present here cannot have a closed channel.
func (m *Manager) deliver(c *Client, event Event) {
	m.mu.RLock()
	registered := false
	if conns, ok := m.clients[c.UserID]; ok {
		_, registered = conns[c]
	}
	if !registered {
		m.mu.RUnlock()
		return
	}

	var full bool
	select {
	case c.send <- event:
	default:
		full = true
	}
	m.mu.RUnlock()

	if full {
		logger.Warn("ws send buffer full, dropping connection", "user_id", c.UserID)
		go m.Unregister(c)
	}
}

// IsOnline reports whether the user has at least one live connection.
func (m *Manager) IsOnline(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}

// OnlineUsers lists every user with at least one live connection.
func (m *Manager) OnlineUsers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]string, 0, len(m.clients))
	for uid := range m.clients {
		users = append(users, uid)
	}
	return users
}

// RoomSize reports how many connections are joined to a conversation room.
func (m *Manager) RoomSize(conversationID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[conversationID])
}
