package ws

import (
	"log/slog"
	"sync"

	"github.com/cwrk-planet/draw-service/internal/domain"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	SessionID() domain.SessionID
}

// Hub indexes live connections by session id and resolves the relay's
// recipient selectors into writes. A connection can join any number of
// rooms over its lifetime, so the index is session-keyed, not room-keyed.
type Hub struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]Conn
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[domain.SessionID]Conn)}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[c.SessionID()] = c
}

func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.sessions[c.SessionID()]; ok && cur == c {
		delete(h.sessions, c.SessionID())
	}
}

// Deliver writes one relay delivery out. Best-effort: a session that
// disconnected between the relay snapshot and the write is skipped.
func (h *Hub) Deliver(d domain.Delivery) {
	msg, err := toMessage(d.Event)
	if err != nil {
		slog.Error("ws encode event failed", "type", d.Event.Type, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	switch d.To.Kind {
	case domain.Unicast:
		if c, ok := h.sessions[d.To.Session]; ok {
			_ = c.Send(msg) // best-effort
		}
	case domain.Broadcast:
		for _, sid := range d.To.Members {
			if c, ok := h.sessions[sid]; ok {
				_ = c.Send(msg)
			}
		}
	}
}
