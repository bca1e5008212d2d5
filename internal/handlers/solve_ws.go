package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yuuuno/sweeper/internal/config"
	"github.com/yuuuno/sweeper/internal/snapshot"
)

// HandleSolveWS answers a stream of snapshots over one connection:
// every inbound frame is a snapshot document, every outbound frame
// the conclusions for it. Calls stay independent; the handler keeps
// no state between frames.
func (h *SolveHandler) HandleSolveWS(ws *config.WebSocket) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Error("failed to upgrade connection", slog.Any("error", err))
			return
		}
		defer conn.Close()

		for {
			var doc snapshot.Document
			if err := conn.ReadJSON(&doc); err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
				) {
					h.logger.Debug("ws closed", slog.Any("error", err))
				}
				return
			}

			dto, err := h.solve(r, doc)
			if err != nil {
				if writeErr := conn.WriteJSON(map[string]string{
					"error": err.Error(),
				}); writeErr != nil {
					return
				}
				continue
			}

			if err := conn.WriteJSON(dto); err != nil {
				h.logger.Debug("ws write failed", slog.Any("error", err))
				return
			}
		}
	}
}
