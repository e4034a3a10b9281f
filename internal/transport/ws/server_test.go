package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cwrk-planet/draw-service/internal/registry"
	"github.com/cwrk-planet/draw-service/internal/service"
	"github.com/cwrk-planet/draw-service/internal/store"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) string {
	t.Helper()

	relay := service.NewRelayService(store.NewMemory(), registry.New())
	s := NewServer(NewHub(), relay)
	srv := httptest.NewServer(http.HandlerFunc(s.HandleWS))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func send(t *testing.T, c *websocket.Conn, typ string, payload any) {
	t.Helper()

	msg, err := newMessage(typ, payload)
	require.NoError(t, err)
	require.NoError(t, c.WriteJSON(msg))
}

func recv(t *testing.T, c *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg Message
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}

func recvBackfill(t *testing.T, c *websocket.Conn) BackfillPayload {
	t.Helper()

	msg := recv(t, c)
	require.Equal(t, TypeBackfill, msg.Type)
	var p BackfillPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	return p
}

func TestServer_EndToEnd(t *testing.T) {
	req := require.New(t)
	url := newTestServer(t)
	c1 := dial(t, url)
	c2 := dial(t, url)

	// c1 joins an empty room
	send(t, c1, TypeLogin, LoginPayload{Room: "r1"})
	req.Empty(recvBackfill(t, c1).Paths)

	// c1 draws alone: nobody to display to
	send(t, c1, TypeDraw, DrawPayload{Room: "r1", Path: json.RawMessage(`"stroke1"`)})

	// re-login: идемпотентный join, backfill подтверждает что draw доехал
	// (события одной сессии обрабатываются по порядку)
	send(t, c1, TypeLogin, LoginPayload{Room: "r1"})
	bf := recvBackfill(t, c1)
	req.Len(bf.Paths, 1)
	req.JSONEq(`"stroke1"`, string(bf.Paths[0]))

	// c2 joins and gets the accumulated history
	send(t, c2, TypeLogin, LoginPayload{Room: "r1"})
	bf = recvBackfill(t, c2)
	req.Len(bf.Paths, 1)
	req.JSONEq(`"stroke1"`, string(bf.Paths[0]))

	// c1 draws again: display reaches c2
	send(t, c1, TypeDraw, DrawPayload{Room: "r1", Path: json.RawMessage(`"stroke2"`)})
	msg := recv(t, c2)
	req.Equal(TypeDisplay, msg.Type)
	var disp DisplayPayload
	req.NoError(json.Unmarshal(msg.Payload, &disp))
	req.Equal("r1", disp.Room)
	req.JSONEq(`"stroke2"`, string(disp.Path))

	// no self-delivery: c1's next inbound frame is c2's stroke,
	// never its own stroke2
	send(t, c2, TypeDraw, DrawPayload{Room: "r1", Path: json.RawMessage(`"stroke3"`)})
	msg = recv(t, c1)
	req.Equal(TypeDisplay, msg.Type)
	req.NoError(json.Unmarshal(msg.Payload, &disp))
	req.JSONEq(`"stroke3"`, string(disp.Path))
}

func TestServer_Rejects_Malformed_Draw(t *testing.T) {
	req := require.New(t)
	url := newTestServer(t)
	c := dial(t, url)

	// draw без path отклоняется на границе, до relay
	send(t, c, TypeDraw, LoginPayload{Room: "r1"})
	msg := recv(t, c)
	req.Equal(TypeError, msg.Type)

	var p ErrorPayload
	req.NoError(json.Unmarshal(msg.Payload, &p))
	req.NotEmpty(p.Error)
}

func TestServer_Rejects_Login_Without_Room(t *testing.T) {
	req := require.New(t)
	url := newTestServer(t)
	c := dial(t, url)

	send(t, c, TypeLogin, LoginPayload{})
	req.Equal(TypeError, recv(t, c).Type)
}
