package ws

import (
	"encoding/json"
	"fmt"

	"github.com/cwrk-planet/draw-service/internal/domain"
)

// Типы событий протокола рисования
const (
	TypeLogin    = "login"    // вход в комнату
	TypeDraw     = "draw"     // новый штрих
	TypeBackfill = "backfill" // история комнаты новому участнику
	TypeDisplay  = "display"  // штрих другого участника
	TypeError    = "error"    // не применилось (store недоступен / кривой payload)
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type LoginPayload struct {
	Room string `json:"room"`
}

// Path остаётся json.RawMessage: relay не интерпретирует содержимое штриха
// и обязан переслать байты как есть.
type DrawPayload struct {
	Room string          `json:"room"`
	Path json.RawMessage `json:"path"`
}

type BackfillPayload struct {
	Room  string            `json:"room"`
	Paths []json.RawMessage `json:"paths"`
}

type DisplayPayload struct {
	Room string          `json:"room"`
	Path json.RawMessage `json:"path"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func newMessage(typ string, payload any) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return Message{Type: typ, Payload: b}, nil
}

// toMessage maps a relay event onto its wire frame.
func toMessage(ev domain.Event) (Message, error) {
	switch ev.Type {
	case domain.EventBackfill:
		// paths всегда массив, даже пустой
		paths := make([]json.RawMessage, 0, len(ev.Paths))
		for _, p := range ev.Paths {
			paths = append(paths, json.RawMessage(p))
		}
		return newMessage(TypeBackfill, BackfillPayload{Room: ev.Room, Paths: paths})
	case domain.EventDisplay:
		return newMessage(TypeDisplay, DisplayPayload{Room: ev.Room, Path: json.RawMessage(ev.Path)})
	default:
		return Message{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
}
