package registry

import (
	"testing"

	"github.com/cwrk-planet/draw-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Join_One_Room(t *testing.T) {
	req := require.New(t)
	reg := New()
	session := domain.SessionID(uuid.NewString())

	// Given an unknown room
	req.Empty(reg.MembersOf("r1"))

	// When a session joins
	reg.Join(session, "r1")

	// Then it is the only member
	req.Equal([]domain.SessionID{session}, reg.MembersOf("r1"))
}

func TestRegistry_Join_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	reg := New()
	session := domain.SessionID(uuid.NewString())

	reg.Join(session, "r1")
	reg.Join(session, "r1")

	req.Len(reg.MembersOf("r1"), 1)
}

func TestRegistry_Join_Multiple_Rooms(t *testing.T) {
	req := require.New(t)
	reg := New()
	s1 := domain.SessionID(uuid.NewString())
	s2 := domain.SessionID(uuid.NewString())

	reg.Join(s1, "r1")
	reg.Join(s1, "r2")
	reg.Join(s2, "r2")

	req.ElementsMatch([]domain.SessionID{s1}, reg.MembersOf("r1"))
	req.ElementsMatch([]domain.SessionID{s1, s2}, reg.MembersOf("r2"))
}

func TestRegistry_Leave_Releases_Every_Membership(t *testing.T) {
	req := require.New(t)
	reg := New()
	s1 := domain.SessionID(uuid.NewString())
	s2 := domain.SessionID(uuid.NewString())

	// Given a session in two rooms
	reg.Join(s1, "r1")
	reg.Join(s1, "r2")
	reg.Join(s2, "r2")

	// When it leaves
	reg.Leave(s1)

	// Then it is gone everywhere, other members stay
	req.Empty(reg.MembersOf("r1"))
	req.ElementsMatch([]domain.SessionID{s2}, reg.MembersOf("r2"))
}

func TestRegistry_Leave_Unknown_Session_Is_Noop(t *testing.T) {
	req := require.New(t)
	reg := New()

	req.NotPanics(func() {
		reg.Leave(domain.SessionID(uuid.NewString()))
	})
	req.Empty(reg.MembersOf("r1"))
}
