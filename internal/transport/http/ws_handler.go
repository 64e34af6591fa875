package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"trivia-service/internal/app"
)

// WSHandler streams leaderboard snapshots to websocket clients. Every rollup
// publishes a fresh board through the hub; clients just watch it move.
type WSHandler struct {
	board    *app.LeaderboardHub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(board *app.LeaderboardHub, log *zap.Logger) *WSHandler {
	return &WSHandler{
		board: board,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeLeaderboard upgrades the request and forwards board updates until the
// client hangs up.
func (h *WSHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.board.Subscribe()
	defer cancel()

	// Reader only detects the peer closing; inbound payloads are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case board, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(board); err != nil {
				h.log.Debug("ws write failed", zap.Error(err))
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
