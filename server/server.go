// Package server exposes the move engine over HTTP: one-shot move
// analysis, full searches, and snapshots of the last search tree, plus a
// websocket stream of live search statistics.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"einstein/game"
	"einstein/searcher"
)

type Server struct {
	mcts   *searcher.MCTS
	router chi.Router

	// searchMu keeps each response's move and search statistics from one
	// search: a concurrent request resets the engine's per-search counters.
	searchMu sync.Mutex
}

func New(mcts *searcher.MCTS) *Server {
	// Tree snapshots are the whole point of the /api/tree endpoint.
	mcts.EnableTreePersistence(true)

	s := &Server{mcts: mcts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/analyze", s.handleAnalyze)
	r.Post("/api/bestmove", s.handleBestMove)
	r.Get("/api/tree", s.handleTree)
	r.Get("/ws/live", s.handleLive)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Listen serves until the listener fails.
func (s *Server) Listen(addr string) error {
	log.Info().Msgf("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

type positionRequest struct {
	Board  game.Board  `json:"board"`
	Player game.Player `json:"player"`
	Dice   int         `json:"dice"`
}

func (p *positionRequest) validate() string {
	if p.Player != game.LeftTop && p.Player != game.RightBottom {
		return "player must be -1 (LeftTop) or 1 (RightBottom)"
	}
	if p.Dice < game.MinDice || p.Dice > game.MaxDice {
		return "dice must be between 1 and 6"
	}
	return ""
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	analysis := s.mcts.GetMoveAnalysis(&req.Board, req.Player, req.Dice)
	writeJSON(w, http.StatusOK, map[string]any{"moves": analysis})
}

func (s *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	s.searchMu.Lock()
	move := s.mcts.FindBestMove(&req.Board, req.Player, req.Dice)
	iterations := s.mcts.GetIterationsPerformed()
	seconds := s.mcts.GetLastSearchTime()
	s.searchMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"move":       move,
		"valid":      move.Valid(),
		"iterations": iterations,
		"seconds":    seconds,
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	depth := queryInt(r, "depth", 2)
	width := queryInt(r, "width", 3)

	writeJSON(w, http.StatusOK, s.mcts.ExportSearchTree(depth, width))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
