// internal/game/types.go
//
// Core type definitions for the Defuse session engine.
// Defines:
//   - Mode: which puzzle variant a session belongs to (daily/endless).
//   - Status: the explicit state of a session (in_progress/won/lost).
//   - Config: per-mode board size and tries budget.
//   - Session: state for a single in-progress or finished attempt.

package game

import (
	"time"

	"github.com/robalobadob/defuse/internal/grid"
)

// Mode selects the puzzle variant.
type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeEndless Mode = "endless"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeDaily || m == ModeEndless }

// Status is the session state. A session starts InProgress and moves to
// exactly one terminal state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Config is the mode-dependent board shape.
type Config struct {
	GridSize int `json:"gridSize"` // board is GridSize×GridSize
	MaxTries int `json:"maxTries"` // non-winning guesses allowed
}

// Session holds the state of one puzzle attempt.
type Session struct {
	ID             string       // Unique session identifier (random hex string).
	Mode           Mode         // Daily or endless.
	DateKey        string       // Date the daily target was derived from; empty for endless.
	Target         grid.Coord   // The bomb. Fixed at creation.
	GridSize       int          // Board edge length.
	Guesses        []grid.Coord // Revealed cells in click order, no duplicates.
	TriesRemaining int          // Decremented on each non-winning guess; never negative.
	Status         Status       // Current state.
	StartedAt      time.Time    // When the session was created.
	EndedAt        time.Time    // Set once Status is terminal; zero otherwise.
}
