package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/cwrk-planet/draw-service/internal/registry"
	"github.com/cwrk-planet/draw-service/internal/service"
	"github.com/cwrk-planet/draw-service/internal/store"
	"github.com/cwrk-planet/draw-service/internal/transport/ws"

	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*service.RelayService, *httptest.Server) {
	t.Helper()

	relay := service.NewRelayService(store.NewMemory(), registry.New())
	handler := NewHandler(relay)
	router := NewRouter(handler, ws.NewServer(ws.NewHub(), relay))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return relay, srv
}

func TestHandler_GetRoomPaths(t *testing.T) {
	req := require.New(t)
	relay, srv := newTestRouter(t)
	ctx := context.Background()

	_, err := relay.Draw(ctx, "s1", "r1", `"stroke1"`)
	req.NoError(err)
	_, err = relay.Draw(ctx, "s1", "r1", `"stroke2"`)
	req.NoError(err)

	res, err := srv.Client().Get(srv.URL + "/rooms/r1/paths")
	req.NoError(err)
	defer res.Body.Close()
	req.Equal(200, res.StatusCode)

	var body PathsResponse
	req.NoError(json.NewDecoder(res.Body).Decode(&body))
	req.Len(body.Items, 2)
	req.Equal(`"stroke1"`, string(body.Items[0]))
	req.Equal(`"stroke2"`, string(body.Items[1]))
	req.Empty(body.NextCursor)
}

func TestHandler_GetRoomPaths_Unknown_Room_Is_Empty(t *testing.T) {
	req := require.New(t)
	_, srv := newTestRouter(t)

	res, err := srv.Client().Get(srv.URL + "/rooms/ghost/paths")
	req.NoError(err)
	defer res.Body.Close()
	req.Equal(200, res.StatusCode)

	var body PathsResponse
	req.NoError(json.NewDecoder(res.Body).Decode(&body))
	req.Empty(body.Items)
}

func TestHandler_GetRoomPaths_Invalid_Cursor(t *testing.T) {
	req := require.New(t)
	_, srv := newTestRouter(t)

	res, err := srv.Client().Get(srv.URL + "/rooms/r1/paths?cursor=%21%21%21")
	req.NoError(err)
	defer res.Body.Close()
	req.Equal(400, res.StatusCode)

	var body ErrorResponse
	req.NoError(json.NewDecoder(res.Body).Decode(&body))
	req.Equal("invalid_cursor", body.Error)
}

func TestHandler_Healthz(t *testing.T) {
	req := require.New(t)
	_, srv := newTestRouter(t)

	res, err := srv.Client().Get(srv.URL + "/healthz")
	req.NoError(err)
	defer res.Body.Close()
	req.Equal(200, res.StatusCode)
}
