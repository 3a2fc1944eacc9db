package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// livePayload is one sample of search progress pushed to websocket clients.
type livePayload struct {
	Searching   bool  `json:"searching"`
	Iterations  int   `json:"iterations"`
	UpdatedAtMs int64 `json:"updated_at_ms"`
}

const liveInterval = 250 * time.Millisecond

// handleLive streams search statistics to the client until it disconnects.
// The stream samples the engine's atomic counters, so it can run alongside
// an in-flight /api/bestmove search without touching the tree.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		// Drain control frames; any read error means the client is gone.
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(liveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			payload := livePayload{
				Searching:   s.mcts.Searching(),
				Iterations:  s.mcts.GetIterationsPerformed(),
				UpdatedAtMs: time.Now().UnixMilli(),
			}
			if err := conn.WriteJSON(payload); err != nil {
				return
			}
		}
	}
}
