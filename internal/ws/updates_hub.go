package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Client is one connected updates-feed subscriber.
type Client struct {
	UserID uint
	Send   chan []byte

	hub    *UpdatesHub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend queues a message unless the client is closed or its buffer is full.
// The mutex orders the send against Close, which closes the channel.
func (c *Client) trySend(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

// UpdatesHub fans site-wide events (new threads, new chains, level-ups) out to
// every connected client. Broadcast-only; clients never send.
type UpdatesHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewUpdatesHub() *UpdatesHub {
	return &UpdatesHub{clients: make(map[*Client]struct{})}
}

func (h *UpdatesHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *UpdatesHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *UpdatesHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Event is one feed entry.
type Event struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
	At   int64                  `json:"at"`
}

func (h *UpdatesHub) broadcast(ev Event) {
	ev.At = time.Now().Unix()
	data, _ := json.Marshal(ev)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		// Slow consumers drop events rather than blocking the hub.
		c.trySend(data)
	}
}

func (h *UpdatesHub) ThreadCreated(threadID, chainID uint, title, author string) {
	h.broadcast(Event{Type: "thread_created", Data: map[string]interface{}{
		"thread_id": threadID,
		"chain_id":  chainID,
		"title":     title,
		"author":    author,
	}})
}

func (h *UpdatesHub) ChainCreated(chainID uint, name, slug string) {
	h.broadcast(Event{Type: "chain_created", Data: map[string]interface{}{
		"chain_id": chainID,
		"name":     name,
		"slug":     slug,
	}})
}

func (h *UpdatesHub) LevelUp(userID uint, username string, newLevel int) {
	h.broadcast(Event{Type: "level_up", Data: map[string]interface{}{
		"user_id":   userID,
		"username":  username,
		"new_level": newLevel,
	}})
}
