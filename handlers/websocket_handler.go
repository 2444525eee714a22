package handlers

import (
	"log/slog"
	"net/http"

	"github.com/agusaisen/recopro/events"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *events.Hub
}

func NewWebSocketHandler(hub *events.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Subscribe upgrades the connection and attaches it to the event hub
// so dashboards receive team and roster updates live.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	h.hub.Subscribe(conn)
}
