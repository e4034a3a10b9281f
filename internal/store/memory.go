package store

import (
	"context"
	"sync"

	"github.com/cwrk-planet/draw-service/internal/domain"
)

// Memory keeps room histories in-process. Non-durable: meant for
// single-instance deployments and tests.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string][]domain.Path
}

func NewMemory() *Memory {
	return &Memory{rooms: make(map[string][]domain.Path)}
}

func (s *Memory) Append(_ context.Context, room string, path domain.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room] = append(s.rooms[room], path)
	return nil
}

func (s *Memory) ReadAll(_ context.Context, room string) ([]domain.Path, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := s.rooms[room]
	// копия: срез комнаты продолжает расти под чужими Append
	out := make([]domain.Path, len(paths))
	copy(out, paths)
	return out, nil
}

func (s *Memory) History(_ context.Context, room, after string, limit int) ([]domain.Path, string, error) {
	cur, err := DecodeCursor(after)
	if err != nil {
		return nil, "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := s.rooms[room]
	offset := 0
	if cur != nil {
		offset = int(cur.Seq)
	}
	if offset >= len(paths) {
		return nil, "", nil
	}

	end := offset + limit
	if end > len(paths) {
		end = len(paths)
	}
	out := make([]domain.Path, end-offset)
	copy(out, paths[offset:end])

	var next string
	if end < len(paths) {
		next, _ = EncodeCursor(Cursor{Seq: int64(end)})
	}
	return out, next, nil
}
