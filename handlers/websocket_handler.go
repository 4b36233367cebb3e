package handlers

import (
	"log"
	"net/http"

	"github.com/courtside-app/backend/brackets"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict Origin to the deployed frontend host.
		return true
	},
}

type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes the caller to bracket change events for one tournament.
// Clients connect to /ws/tournaments/{tournamentID} and receive MATCH_UPDATED,
// BRACKET_UPDATED and TOURNAMENT_COMPLETED events; they refetch over HTTP.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		log.Printf("ws upgrade failed for tournament %d: %v", tournamentID, err)
		return
	}

	client := brackets.NewClient(h.hub, conn, brackets.TournamentRoom(tournamentID))
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
