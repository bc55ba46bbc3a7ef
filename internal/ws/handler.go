package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/stahp-game/stahp-backend/internal/game"
)

// Handler upgrades HTTP requests to websocket connections and attaches each
// one to the room as a player.
type Handler struct {
	room     *game.Room
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewHandler(room *game.Room, logger *zap.Logger) *Handler {
	return &Handler{
		room:   room,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn, h.room, h.logger)
	client.playerID = h.room.Connect(client)

	go client.writePump()
	go client.readPump()
}
