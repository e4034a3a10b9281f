package registry

import (
	"sync"

	"github.com/cwrk-planet/draw-service/internal/domain"
)

// Registry tracks which sessions are members of which rooms. Purely
// in-memory: membership is never persisted, it is rebuilt from live
// connections. Operations never fail.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]map[domain.SessionID]struct{}
	sessions map[domain.SessionID]map[string]struct{} // обратный индекс для Leave
}

func New() *Registry {
	return &Registry{
		rooms:    make(map[string]map[domain.SessionID]struct{}),
		sessions: make(map[domain.SessionID]map[string]struct{}),
	}
}

// Join adds session to room's member set. Idempotent: re-joining is a no-op.
func (r *Registry) Join(session domain.SessionID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ms, ok := r.rooms[room]
	if !ok {
		ms = make(map[domain.SessionID]struct{})
		r.rooms[room] = ms
	}
	ms[session] = struct{}{}

	rs, ok := r.sessions[session]
	if !ok {
		rs = make(map[string]struct{})
		r.sessions[session] = rs
	}
	rs[room] = struct{}{}
}

// Leave removes session from every room it was a member of. Idempotent: a
// session with no memberships is a no-op.
func (r *Registry) Leave(session domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.sessions[session] {
		if ms, ok := r.rooms[room]; ok {
			delete(ms, session)
			if len(ms) == 0 {
				delete(r.rooms, room)
			}
		}
	}
	delete(r.sessions, session)
}

// MembersOf returns the current member set; empty for an unknown room.
func (r *Registry) MembersOf(room string) []domain.SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ms := r.rooms[room]
	out := make([]domain.SessionID, 0, len(ms))
	for s := range ms {
		out = append(out, s)
	}
	return out
}
