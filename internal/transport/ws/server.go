package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cwrk-planet/draw-service/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type RelaySvc interface {
	Join(ctx context.Context, session domain.SessionID, room string) ([]domain.Delivery, error)
	Draw(ctx context.Context, session domain.SessionID, room string, path domain.Path) ([]domain.Delivery, error)
	Leave(session domain.SessionID)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	relay    RelaySvc

	pingEvery time.Duration
}

func NewServer(hub *Hub, relay RelaySvc) *Server {
	return &Server{
		hub:   hub,
		relay: relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws
//
// Session id выдаётся здесь, при апгрейде; комнат у сессии пока нет —
// membership появляется только после login.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}

	sid := domain.SessionID(uuid.NewString())
	c := newWsConn(conn, sid)
	s.hub.Add(c)
	slog.Info("ws connect", "session", sid)

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	// disconnect: снять соединение и отпустить все комнаты
	s.hub.Remove(c)
	s.relay.Leave(sid)
	slog.Info("ws disconnect", "session", sid)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "session", sid, "err", err)
	}
}

// readLoop processes this session's events strictly in arrival order.
// Different sessions run in their own readLoops and interleave freely.
func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(c, "invalid json")
			continue
		}

		switch msg.Type {
		case TypeLogin:
			var p LoginPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Room == "" {
				s.sendError(c, "login requires a room")
				continue
			}
			deliveries, err := s.relay.Join(ctx, c.sessionID, p.Room)
			if err != nil {
				slog.Warn("ws join failed", "session", c.sessionID, "room", p.Room, "err", err)
				s.sendError(c, "room history unavailable")
				continue
			}
			s.deliver(deliveries)
		case TypeDraw:
			var p DrawPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Room == "" || len(p.Path) == 0 {
				s.sendError(c, "draw requires a room and a path")
				continue
			}
			deliveries, err := s.relay.Draw(ctx, c.sessionID, p.Room, domain.Path(p.Path))
			if err != nil {
				// штрих не сохранился и никому не ушёл — сообщаем отправителю
				slog.Warn("ws draw failed", "session", c.sessionID, "room", p.Room, "err", err)
				s.sendError(c, "draw not applied")
				continue
			}
			s.deliver(deliveries)
		default:
			// ignore
		}
	}
}

func (s *Server) deliver(deliveries []domain.Delivery) {
	for _, d := range deliveries {
		s.hub.Deliver(d)
	}
}

func (s *Server) sendError(c *wsConn, text string) {
	msg, err := newMessage(TypeError, ErrorPayload{Error: text})
	if err != nil {
		return
	}
	_ = c.Send(msg)
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- conn ---

type wsConn struct {
	conn      *websocket.Conn
	sessionID domain.SessionID
	sendMu    chan struct{}
	closed    chan struct{}
}

func newWsConn(c *websocket.Conn, sid domain.SessionID) *wsConn {
	return &wsConn{
		conn:      c,
		sessionID: sid,
		sendMu:    make(chan struct{}, 1),
		closed:    make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) SessionID() domain.SessionID { return c.sessionID }
