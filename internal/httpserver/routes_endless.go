package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/defuse/internal/game"
)

// mountEndless registers all /endless routes.
func (s *Server) mountEndless(r chi.Router) {
	r.Route("/endless", func(r chi.Router) {
		r.Post("/new", s.handleEndlessNew)
		r.With(s.throttle).Post("/guess", s.handleGuess(game.ModeEndless))
		r.Get("/leaderboard", s.handleEndlessLeaderboard)
	})
}

func (s *Server) handleEndlessNew(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.StartEndless(r.Context(), playerID(r))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayView(p, s.svc.Now()))
}

func (s *Server) handleEndlessLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.svc.EndlessLeaderboard(r.Context())
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": board.Rows, "stale": board.Stale})
}
