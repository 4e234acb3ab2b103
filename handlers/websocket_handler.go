package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tcs-suzini/club-backend/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin policy is enforced by the CORS layer on the API;
		// the socket carries public score updates only.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// TournamentFeed upgrades the connection and subscribes it to live score
// updates for one tournament.
func (h *WebSocketHandler) TournamentFeed(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	h.logger.Info("websocket client connected",
		slog.String("tournament_id", tournamentID),
		slog.String("remote", r.RemoteAddr))

	client := live.NewClient(h.hub, conn, tournamentID)
	client.Serve()
}
