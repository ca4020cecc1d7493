package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dosada05/pickup-scoreboard/live"
	"github.com/Dosada05/pickup-scoreboard/services"
	"github.com/gorilla/websocket"
)

// LiveHandler upgrades scoreboard viewers to the websocket feed of a game.
type LiveHandler struct {
	hub          *live.Hub
	matchService services.MatchService
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewLiveHandler accepts connections from allowedOrigins; "*" or an empty
// list allows any origin.
func NewLiveHandler(hub *live.Hub, ms services.MatchService, allowedOrigins []string, logger *slog.Logger) *LiveHandler {
	return &LiveHandler{
		hub:          hub,
		matchService: ms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger,
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs subscribes the connection to /ws/games/{gameID}. The current board
// is sent first.
func (h *LiveHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.matchService.Board(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied
		h.logger.Warn("websocket upgrade failed", slog.String("game_id", gameID.String()), slog.Any("error", err))
		return
	}

	room := live.RoomForGame(gameID)
	client := live.NewClient(h.hub, conn, room)

	snapshot, err := json.Marshal(live.Message{Type: live.MessageBoardUpdated, Payload: board, RoomID: room})
	if err == nil {
		client.Send <- snapshot
	}

	if !h.hub.Join(client) {
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client joined", slog.String("room", room))
}
