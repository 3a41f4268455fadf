// Package streak tracks consecutive daily wins across calendar days and
// decides when today's daily puzzle is locked.
//
// Only a resolving daily session calls Resolve. Endless sessions read the
// state for gating and reporting but never write it.
package streak

import "github.com/robalobadob/defuse/internal/daily"

// Outcome is how a daily session ended.
type Outcome string

const (
	Won  Outcome = "won"
	Lost Outcome = "lost"
)

// State persists across sessions. Best ≥ Current after every Resolve.
type State struct {
	Current     int     `json:"currentStreak"`
	Best        int     `json:"bestStreak"`
	LastPlayed  string  `json:"lastPlayedDate,omitempty"` // date key, empty when never played
	LastOutcome Outcome `json:"lastOutcome,omitempty"`
}

// Policy decides which outcomes lock the daily puzzle for the rest of the day.
type Policy string

const (
	// LockoutAnyOutcome locks after a win or a loss.
	LockoutAnyOutcome Policy = "any"
	// LockoutWinOnly locks only after a win; a lost day may be retried.
	LockoutWinOnly Policy = "win"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool { return p == LockoutAnyOutcome || p == LockoutWinOnly }

// Resolve returns the state after a daily session ends on today.
//
// Won: same day keeps the streak, the day after LastPlayed extends it,
// anything else restarts at 1. Lost: the streak drops to 0 and Best is kept.
// LastPlayed becomes today either way.
func Resolve(o Outcome, prev State, today string) State {
	next := prev
	next.LastPlayed = today
	next.LastOutcome = o

	switch o {
	case Won:
		switch {
		case prev.LastPlayed == today:
			// already resolved today; keep the count
		case prev.LastPlayed != "" && prev.LastPlayed == yesterday(today):
			next.Current = prev.Current + 1
		default:
			next.Current = 1
		}
	case Lost:
		next.Current = 0
	}

	next.Best = max(next.Best, next.Current)
	return next
}

// Locked reports whether today's daily puzzle must not be offered again.
func Locked(s State, today string, p Policy) bool {
	if s.LastPlayed == "" || s.LastPlayed != today {
		return false
	}
	if p == LockoutWinOnly {
		return s.LastOutcome == Won
	}
	return true
}

func yesterday(today string) string {
	y, err := daily.Yesterday(today)
	if err != nil {
		return ""
	}
	return y
}
