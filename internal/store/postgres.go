package store

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/draw-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the durable PathStore backend: one ordered list per room,
// keyed by a room-namespaced key, ordered by an append-time serial.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the single table the store needs. Safe to run on
// every start.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS room_paths (
			seq      bigserial PRIMARY KEY,
			room_key text      NOT NULL,
			path     text      NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS room_paths_room_key_seq ON room_paths (room_key, seq)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("%w: ensure schema: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *Postgres) Append(ctx context.Context, room string, path domain.Path) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO room_paths (room_key, path)
		VALUES ($1, $2)
	`, roomKey(room), string(path))
	if err != nil {
		return fmt.Errorf("%w: append: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Postgres) ReadAll(ctx context.Context, room string) ([]domain.Path, error) {
	rows, err := s.db.Query(ctx, `
		SELECT path FROM room_paths
		WHERE room_key = $1
		ORDER BY seq
	`, roomKey(room))
	if err != nil {
		return nil, fmt.Errorf("%w: read all: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []domain.Path
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%w: read all: %v", domain.ErrStoreUnavailable, err)
		}
		out = append(out, domain.Path(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read all: %v", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (s *Postgres) History(ctx context.Context, room, after string, limit int) ([]domain.Path, string, error) {
	cur, err := DecodeCursor(after)
	if err != nil {
		return nil, "", err
	}
	var afterSeq int64
	if cur != nil {
		afterSeq = cur.Seq
	}

	rows, err := s.db.Query(ctx, `
		SELECT seq, path FROM room_paths
		WHERE room_key = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3
	`, roomKey(room), afterSeq, limit)
	if err != nil {
		return nil, "", fmt.Errorf("%w: history: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var (
		out     []domain.Path
		lastSeq int64
	)
	for rows.Next() {
		var p string
		if err := rows.Scan(&lastSeq, &p); err != nil {
			return nil, "", fmt.Errorf("%w: history: %v", domain.ErrStoreUnavailable, err)
		}
		out = append(out, domain.Path(p))
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: history: %v", domain.ErrStoreUnavailable, err)
	}

	var next string
	if len(out) == limit {
		next, _ = EncodeCursor(Cursor{Seq: lastSeq})
	}
	return out, next, nil
}

// roomKey — хранимый ключ комнаты: "room:" + room.
func roomKey(room string) string {
	return "room:" + room
}
