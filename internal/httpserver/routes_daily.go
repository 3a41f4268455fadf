// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (resumes one in progress)
//   - POST /daily/guess       → reveal a cell in today's puzzle
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// One resolved attempt per day; a second /daily/new answers 409 locked_out
// together with the player's streak.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/grid"
	"github.com/robalobadob/defuse/internal/play"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.With(s.throttle).Post("/guess", s.handleGuess(game.ModeDaily))
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

// lockedRes is returned with 409 when today's puzzle is already resolved.
type lockedRes struct {
	Error string `json:"error"`
	playView
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.StartDaily(r.Context(), playerID(r))
	if errors.Is(err, play.ErrLockedOut) {
		writeJSON(w, http.StatusConflict, lockedRes{Error: "locked_out", playView: newPlayView(p, s.svc.Now())})
		return
	}
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayView(p, s.svc.Now()))
}

// handleGuess applies {"row":r,"col":c} to the caller's session for mode.
func (s *Server) handleGuess(mode game.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c grid.Coord
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeErr(w, http.StatusBadRequest, "bad_json")
			return
		}
		res, err := s.svc.Guess(r.Context(), playerID(r), mode, c)
		if err != nil {
			writeServiceErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newGuessResView(res, s.svc.Now()))
	}
}

func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date, board, err := s.svc.DailyLeaderboard(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "top": board.Rows, "stale": board.Stale})
}
