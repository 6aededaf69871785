package server

import (
	"log"
	"net/http"

	"github.com/coder/websocket"

	"github.com/ayushshah21/EchoVote/internal/wshub"
)

// handleWS upgrades the connection and hands it to the hub. The read
// loop runs on the request goroutine; writes get their own.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.Cfg.AllowedOrigins,
	})
	if err != nil {
		log.Printf("[WS] accept: %v", err)
		return
	}
	defer conn.CloseNow()

	client := wshub.NewClient(conn)
	s.Hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	s.Hub.ReadPump(ctx, client)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
