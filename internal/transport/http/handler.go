package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cwrk-planet/draw-service/internal/domain"
	"github.com/cwrk-planet/draw-service/internal/store"

	"github.com/go-chi/chi/v5"
)

type HistorySvc interface {
	History(ctx context.Context, room, after string, limit int) ([]domain.Path, string, error)
}

type Handler struct {
	relay HistorySvc
}

func NewHandler(relay HistorySvc) *Handler {
	return &Handler{relay: relay}
}

type PathsResponse struct {
	Items      []json.RawMessage `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /rooms/{room}/paths?limit=&cursor=
//
// Read-only взгляд на историю комнаты — тот же порядок, что получает
// новый участник в backfill.
func (h *Handler) GetRoomPaths(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "room")
	if room == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing room"})
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	cursor := r.URL.Query().Get("cursor")

	paths, next, err := h.relay.History(r.Context(), room, cursor, limit)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			slog.Error("handler.GetRoomPaths:", slog.Any("err", err))
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable"})
			return
		}
		slog.Error("handler.GetRoomPaths:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := PathsResponse{Items: make([]json.RawMessage, 0, len(paths)), NextCursor: next}
	for _, p := range paths {
		resp.Items = append(resp.Items, json.RawMessage(p))
	}

	writeJSON(w, http.StatusOK, resp)
}
