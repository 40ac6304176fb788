package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hooplab/courtside/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware on the HTTP
	// layer; the upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewLiveHandler(hub *live.Hub, logger *slog.Logger) *LiveHandler {
	return &LiveHandler{hub: hub, logger: logger}
}

// Subscribe upgrades the connection and streams the game's score and event
// updates until the client disconnects.
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlParamInt(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			slog.Int("game_id", gameID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, gameID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
