package domain

// Типы исходящих событий relay → transport
const (
	EventBackfill = "backfill" // история комнаты для нового участника
	EventDisplay  = "display"  // свежий штрих остальным участникам
)

// Event is one outbound protocol event produced by the relay.
type Event struct {
	Type  string
	Room  string
	Paths []Path // backfill snapshot, append order
	Path  Path   // the displayed stroke
}

type RecipientKind int

const (
	Unicast   RecipientKind = iota // exactly one session
	Broadcast                      // room members minus the sender
)

// Recipient says who an Event goes to. For Broadcast the member snapshot is
// taken inside the room's critical section with the sender already removed;
// resolving membership any later would race a concurrent join and deliver a
// path twice (backfill + display).
type Recipient struct {
	Kind    RecipientKind
	Session SessionID   // Unicast target
	Room    string      // Broadcast source room
	Members []SessionID // Broadcast targets
}

// Delivery pairs an outbound event with its recipients. The transport owns
// actual writes; the relay only decides who gets what.
type Delivery struct {
	To    Recipient
	Event Event
}

func ToSession(session SessionID, ev Event) Delivery {
	return Delivery{
		To:    Recipient{Kind: Unicast, Session: session},
		Event: ev,
	}
}

func ToRoom(room string, members []SessionID, ev Event) Delivery {
	return Delivery{
		To:    Recipient{Kind: Broadcast, Room: room, Members: members},
		Event: ev,
	}
}
