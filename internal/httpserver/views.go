package httpserver

import (
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/grid"
	"github.com/robalobadob/defuse/internal/hint"
	"github.com/robalobadob/defuse/internal/play"
	"github.com/robalobadob/defuse/internal/streak"
	"github.com/robalobadob/defuse/internal/theme"
)

// guessView is one revealed cell.
type guessView struct {
	Row   int         `json:"row"`
	Col   int         `json:"col"`
	Tier  hint.Tier   `json:"tier"`
	Token theme.Token `json:"token"`
}

// sessionView is what a client may see of a session. The target and the
// bomb token are present only once the session is over.
type sessionView struct {
	ID             string       `json:"id"`
	Mode           game.Mode    `json:"mode"`
	Date           string       `json:"date,omitempty"`
	Status         game.Status  `json:"status"`
	GridSize       int          `json:"gridSize"`
	TriesRemaining int          `json:"triesRemaining"`
	ElapsedSeconds int          `json:"elapsedSeconds"`
	Guesses        []guessView  `json:"guesses"`
	Target         *grid.Coord  `json:"target,omitempty"`
	Bomb           *theme.Token `json:"bomb,omitempty"`
}

// playView is returned when a session is started or read.
type playView struct {
	Session *sessionView `json:"session,omitempty"`
	Theme   theme.Theme  `json:"theme"`
	Streak  streak.State `json:"streak"`
}

// guessResView is returned by the guess endpoints.
type guessResView struct {
	playView
	Tier     hint.Tier   `json:"tier"`
	Token    theme.Token `json:"token"`
	Resolved bool        `json:"resolved"`
}

func newSessionView(sess *game.Session, t theme.Theme, now time.Time) *sessionView {
	if sess == nil {
		return nil
	}
	v := &sessionView{
		ID:             sess.ID,
		Mode:           sess.Mode,
		Date:           sess.DateKey,
		Status:         sess.Status,
		GridSize:       sess.GridSize,
		TriesRemaining: sess.TriesRemaining,
		ElapsedSeconds: sess.ElapsedSeconds(now),
		Guesses: lo.Map(sess.Guesses, func(c grid.Coord, _ int) guessView {
			tier := hint.Classify(c, sess.Target)
			return guessView{Row: c.Row, Col: c.Col, Tier: tier, Token: theme.Present(t, tier)}
		}),
	}
	if sess.Finished() {
		target := sess.Target
		bomb := theme.Reveal(t)
		v.Target = &target
		v.Bomb = &bomb
	}
	return v
}

func newPlayView(p play.Play, now time.Time) playView {
	return playView{
		Session: newSessionView(p.Session, p.Theme, now),
		Theme:   p.Theme,
		Streak:  p.Streak,
	}
}

func newGuessResView(res play.GuessResult, now time.Time) guessResView {
	return guessResView{
		playView: newPlayView(res.Play, now),
		Tier:     res.Tier,
		Token:    theme.Present(res.Theme, res.Tier),
		Resolved: res.Resolved,
	}
}
