package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// ctxPlayerKey is the context key type for the player identity.
type ctxPlayerKey struct{}

// playerID returns the identity attached by withPlayer.
func playerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey{}).(string)
	return id
}

// withPlayer attaches the caller's identity to the request. A missing or
// invalid token is not an error: a fresh identity is minted and its token
// set as a cookie, so every visitor can play without signing up.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.parseToken(bearerOrCookie(r, s.cookieName()))
		if id == "" {
			id = s.svc.NewIdentity()
			tok, exp, err := s.signJWT(id)
			if err != nil {
				log.Error().Err(err).Msg("sign identity token")
				writeErr(w, http.StatusInternalServerError, "sign_failed")
				return
			}
			s.setAuthCookie(w, tok, exp)
			log.Debug().Str("player", id).Msg("identity minted")
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseToken returns the identity carried by tok, or "" if tok is unusable.
func (s *Server) parseToken(tok string) string {
	if tok == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return ""
	}
	id, _ := claims["id"].(string)
	return id
}

// signJWT creates an HS256 JWT carrying the identity with a configurable expiry.
func (s *Server) signJWT(id string) (string, time.Time, error) {
	days := s.cfg.JWTExpiresDays
	if days <= 0 {
		days = 180
	}
	now := time.Now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  id,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

func (s *Server) cookieName() string {
	if s.cfg.CookieName == "" {
		return "defuse_token"
	}
	return s.cfg.CookieName
}

// setAuthCookie writes the identity cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the identity cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}
