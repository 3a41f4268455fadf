package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/defuse/internal/theme"
)

// mountProfile registers the profile, share and notice routes.
func (s *Server) mountProfile(r chi.Router) {
	r.Get("/profile", s.handleOverview)
	r.Post("/profile", s.handleRegister)
	r.Put("/profile/theme", s.handleSelectTheme)
	r.Get("/share", s.handleShare)
	r.Get("/notices", s.handleNotices)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Overview(r.Context(), playerID(r))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

type registerReq struct {
	DisplayName string `json:"displayName"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	p, err := s.svc.Register(r.Context(), playerID(r), body.DisplayName)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type themeReq struct {
	Theme theme.Theme `json:"theme"`
}

func (s *Server) handleSelectTheme(w http.ResponseWriter, r *http.Request) {
	var body themeReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	p, err := s.svc.SelectTheme(r.Context(), playerID(r), body.Theme)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"text": s.svc.Share(r.Context(), playerID(r))})
}

// handleNotices drains the caller's pending notices.
func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"notices": s.svc.Notices(playerID(r))})
}
