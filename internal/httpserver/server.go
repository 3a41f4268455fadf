// internal/httpserver/server.go
//
// HTTP server wiring for the Defuse backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Player endpoints, all behind withPlayer: /profile, /daily/*, /endless/*, /share, /notices.
//   - Mapping service errors to JSON error bodies.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so the identity cookie works).
//   - Every player route runs with an identity; first‑time visitors get one minted.
//   - Guess endpoints are throttled per client IP.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/internal/config"
	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/play"
	"github.com/robalobadob/defuse/internal/profile"
	"github.com/robalobadob/defuse/internal/theme"
)

// Server bundles the router, the game service and its settings.
type Server struct {
	r       *chi.Mux
	svc     *play.Service
	cfg     config.Config
	limiter *ipLimiter
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *play.Service, cfg config.Config) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		svc:     svc,
		cfg:     cfg,
		limiter: newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"defuse-go","endpoints":["/health","/profile","/daily/*","/endless/*","/share","/notices"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		s.mountProfile(r)
		s.mountDaily(r)
		s.mountEndless(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeServiceErr maps a service or engine error onto a status and code.
func writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "server_error"
	switch {
	case errors.Is(err, play.ErrLockedOut):
		status, code = http.StatusConflict, "locked_out"
	case errors.Is(err, play.ErrEndlessLocked):
		status, code = http.StatusForbidden, "endless_locked"
	case errors.Is(err, play.ErrNoSession):
		status, code = http.StatusNotFound, "no_session"
	case errors.Is(err, play.ErrInvalidMode):
		status, code = http.StatusBadRequest, "invalid_mode"
	case errors.Is(err, play.ErrBadDate):
		status, code = http.StatusBadRequest, "bad_date"
	case errors.Is(err, play.ErrProfileUnavailable):
		w.Header().Set("Retry-After", "1")
		status, code = http.StatusServiceUnavailable, "profile_unavailable"
		log.Warn().Err(err).Str("path", r.URL.Path).Str("player", playerID(r)).Msg("profile unavailable")
	case errors.Is(err, game.ErrFinished):
		status, code = http.StatusConflict, "finished"
	case errors.Is(err, game.ErrDuplicateGuess):
		status, code = http.StatusConflict, "duplicate_guess"
	case errors.Is(err, game.ErrOutOfBounds):
		status, code = http.StatusBadRequest, "out_of_bounds"
	case errors.Is(err, profile.ErrNameEmpty):
		status, code = http.StatusBadRequest, "name_empty"
	case errors.Is(err, profile.ErrNameTooLong):
		status, code = http.StatusBadRequest, "name_too_long"
	case errors.Is(err, theme.ErrUnknown):
		status, code = http.StatusBadRequest, "unknown_theme"
	case errors.Is(err, theme.ErrLocked):
		status, code = http.StatusForbidden, "theme_locked"
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("player", playerID(r)).Msg("request failed")
	}
	writeErr(w, status, code)
}
