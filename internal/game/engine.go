// internal/game/engine.go
//
// Core game engine for a single Defuse session.
// Responsibilities:
//   - Create new sessions with a fixed target and a mode-specific budget.
//   - Validate and apply guesses (bounds, duplicates, terminal state).
//   - Classify each guess with the hint engine.
//   - Track state transitions: in_progress → won/lost.
//
// Notes:
//   - Rejected guesses leave the session untouched.
//   - Elapsed time is derived from StartedAt/EndedAt and is never stored.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/robalobadob/defuse/internal/grid"
	"github.com/robalobadob/defuse/internal/hint"
)

var (
	ErrFinished       = errors.New("game finished")
	ErrDuplicateGuess = errors.New("cell already revealed")
	ErrOutOfBounds    = errors.New("cell off the board")
	ErrInvalidConfig  = errors.New("invalid game config")
)

// Validate checks that the board and tries budget are usable.
func (c Config) Validate() error {
	if c.GridSize <= 0 || c.MaxTries <= 0 {
		return fmt.Errorf("%w: grid %d, tries %d", ErrInvalidConfig, c.GridSize, c.MaxTries)
	}
	return nil
}

// New constructs a session in progress with the given target.
func New(mode Mode, target grid.Coord, cfg Config, now time.Time) (*Session, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: mode %q", ErrInvalidConfig, mode)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !target.In(cfg.GridSize) {
		return nil, fmt.Errorf("%w: target %v", ErrOutOfBounds, target)
	}
	return &Session{
		ID:             randomID(),
		Mode:           mode,
		Target:         target,
		GridSize:       cfg.GridSize,
		Guesses:        []grid.Coord{},
		TriesRemaining: cfg.MaxTries,
		Status:         StatusInProgress,
		StartedAt:      now,
	}, nil
}

// SubmitGuess reveals c and returns its tier.
//
// Rejections (no state change):
//   - session already won or lost → ErrFinished
//   - c off the board → ErrOutOfBounds
//   - c already revealed → ErrDuplicateGuess
//
// State transitions:
//   - c is the target → won, clock frozen.
//   - otherwise a try is spent; at zero tries → lost, clock frozen.
func (s *Session) SubmitGuess(c grid.Coord, now time.Time) (hint.Tier, error) {
	if s.Status.Terminal() {
		return "", ErrFinished
	}
	if !c.In(s.GridSize) {
		return "", ErrOutOfBounds
	}
	if s.Guessed(c) {
		return "", ErrDuplicateGuess
	}

	s.Guesses = append(s.Guesses, c)
	tier := hint.Classify(c, s.Target)

	if tier == hint.TierExact {
		s.transition(StatusWon, now)
		return tier, nil
	}
	s.TriesRemaining--
	if s.TriesRemaining <= 0 {
		s.TriesRemaining = 0
		s.transition(StatusLost, now)
	}
	return tier, nil
}

// transition is the only place Status changes.
func (s *Session) transition(to Status, now time.Time) {
	if s.Status.Terminal() || !to.Terminal() {
		return
	}
	s.Status = to
	if now.Before(s.StartedAt) {
		now = s.StartedAt
	}
	s.EndedAt = now
}

// Guessed reports whether c has already been revealed.
func (s *Session) Guessed(c grid.Coord) bool {
	return slices.Contains(s.Guesses, c)
}

// Finished reports whether the session has reached a terminal state.
func (s *Session) Finished() bool { return s.Status.Terminal() }

// Elapsed is the play time so far. It advances with now while in progress
// and is frozen once the session ends.
func (s *Session) Elapsed(now time.Time) time.Duration {
	end := now
	if s.Status.Terminal() {
		end = s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// ElapsedSeconds is Elapsed truncated to whole seconds.
func (s *Session) ElapsedSeconds(now time.Time) int {
	return int(s.Elapsed(now) / time.Second)
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Guesses = slices.Clone(s.Guesses)
	return &c
}
