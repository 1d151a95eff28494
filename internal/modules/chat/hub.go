package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the envelope pushed to connected clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// conn serializes writes to one websocket connection; gorilla allows at most
// one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(ev)
}

// Hub tracks one live websocket connection per user. A new connection
// from the same user replaces the old one.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64]*conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[int64]*conn)}
}

func (h *Hub) Register(userID int64, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.conns[userID]; ok {
		_ = old.ws.Close()
	}
	h.conns[userID] = &conn{ws: ws}
}

// Unregister drops the user's hub entry, but only while it still refers to
// ws. A replaced connection's teardown must not evict the reconnect that
// replaced it.
func (h *Hub) Unregister(userID int64, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, ok := h.conns[userID]
	if !ok || cur.ws != ws {
		return
	}
	_ = cur.ws.Close()
	delete(h.conns, userID)
}

// SendToUser delivers an event to userID if they are connected.
// Returns false when the user is offline or the write failed.
func (h *Hub) SendToUser(userID int64, ev Event) bool {
	h.mu.RLock()
	cl, ok := h.conns[userID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	if err := cl.send(ev); err != nil {
		h.Unregister(userID, cl.ws)
		return false
	}
	return true
}

// BroadcastMessage echoes the event to the sender and delivers it to the
// recipient. Returns whether the recipient received it.
func (h *Hub) BroadcastMessage(senderID, recipientID int64, ev Event) bool {
	_ = h.SendToUser(senderID, ev)
	return h.SendToUser(recipientID, ev)
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.conns[userID]
	return ok
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.conns)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, cl := range h.conns {
		_ = cl.ws.Close()
		delete(h.conns, userID)
	}
}
