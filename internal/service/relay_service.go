package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/cwrk-planet/draw-service/internal/domain"
	"github.com/cwrk-planet/draw-service/internal/registry"
	"github.com/cwrk-planet/draw-service/internal/store"

	"github.com/samber/lo"
)

// RelayService orchestrates the three client-visible operations. It owns no
// state of its own beyond per-room locks: history lives in the PathStore,
// membership in the Registry.
//
// Инвариант: для одной комнаты {register + read-all} и {append + enumerate}
// не пересекаются — иначе новый участник получит штрих дважды (backfill и
// display) или не получит вовсе.
type RelayService struct {
	paths    store.PathStore
	registry *registry.Registry

	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

func NewRelayService(paths store.PathStore, reg *registry.Registry) *RelayService {
	return &RelayService{
		paths:    paths,
		registry: reg,
		rooms:    make(map[string]*sync.Mutex),
	}
}

// roomLock — критическая секция комнаты; разные комнаты параллельны.
func (s *RelayService) roomLock(room string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lk, ok := s.rooms[room]
	if !ok {
		lk = &sync.Mutex{}
		s.rooms[room] = lk
	}
	return lk
}

// Join registers the session in the room and snapshots the history while no
// draw can interleave. The backfill goes only to the joining session; every
// later path reaches it via display instead.
func (s *RelayService) Join(ctx context.Context, session domain.SessionID, room string) ([]domain.Delivery, error) {
	lk := s.roomLock(room)
	lk.Lock()
	defer lk.Unlock()

	s.registry.Join(session, room)

	paths, err := s.paths.ReadAll(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	return []domain.Delivery{
		domain.ToSession(session, domain.Event{
			Type:  domain.EventBackfill,
			Room:  room,
			Paths: paths,
		}),
	}, nil
}

// Draw appends the path and fans it out to every other current member. On a
// store failure nothing is broadcast and the error surfaces to the caller —
// the draw must not look applied to anyone.
func (s *RelayService) Draw(ctx context.Context, session domain.SessionID, room string, path domain.Path) ([]domain.Delivery, error) {
	lk := s.roomLock(room)
	lk.Lock()
	defer lk.Unlock()

	if err := s.paths.Append(ctx, room, path); err != nil {
		return nil, fmt.Errorf("append path: %w", err)
	}

	members := lo.Filter(s.registry.MembersOf(room), func(m domain.SessionID, _ int) bool {
		return m != session
	})
	if len(members) == 0 {
		return nil, nil
	}

	return []domain.Delivery{
		domain.ToRoom(room, members, domain.Event{
			Type: domain.EventDisplay,
			Room: room,
			Path: path,
		}),
	}, nil
}

// Leave releases every membership the session holds. History stays: paths
// outlive the session that drew them. No outbound events.
func (s *RelayService) Leave(session domain.SessionID) {
	s.registry.Leave(session)
}

// History — постраничное чтение истории комнаты для REST.
func (s *RelayService) History(ctx context.Context, room, after string, limit int) ([]domain.Path, string, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.paths.History(ctx, room, after, limit)
}
