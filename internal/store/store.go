package store

import (
	"context"

	"github.com/cwrk-planet/draw-service/internal/domain"
)

// PathStore is an ordered, append-only log of paths per room. Rooms exist
// implicitly: Append creates them, ReadAll on an unknown room is empty.
//
// Backends must give read-after-write visibility: a path whose Append
// completed before ReadAll began is always included, a path whose Append has
// not completed yet never is.
type PathStore interface {
	Append(ctx context.Context, room string, path domain.Path) error
	ReadAll(ctx context.Context, room string) ([]domain.Path, error)

	// History — постраничное чтение для REST (append order, курсор по seq).
	History(ctx context.Context, room, after string, limit int) ([]domain.Path, string, error)
}
