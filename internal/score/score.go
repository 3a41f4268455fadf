// Package score builds the records handed to the leaderboard on a win.
// Builders do no I/O.
package score

import (
	"errors"
	"time"

	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/streak"
)

var ErrNotWon = errors.New("session not won")

// DailyRecord is one daily win.
type DailyRecord struct {
	Identity       string    `json:"identity"`
	DisplayName    string    `json:"displayName"`
	DateKey        string    `json:"dateKey"`
	ElapsedSeconds int       `json:"elapsedSeconds"`
	Streak         int       `json:"streak"`
	CompletedAt    time.Time `json:"completedAt"`
}

// EndlessRecord is one endless win. Score is the player's best daily streak.
type EndlessRecord struct {
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// BuildDaily assembles the record for a won daily session. st must be the
// streak state after the win was resolved.
func BuildDaily(identity, displayName string, s *game.Session, st streak.State, now time.Time) (DailyRecord, error) {
	if s == nil || s.Mode != game.ModeDaily || s.Status != game.StatusWon {
		return DailyRecord{}, ErrNotWon
	}
	return DailyRecord{
		Identity:       identity,
		DisplayName:    displayName,
		DateKey:        s.DateKey,
		ElapsedSeconds: s.ElapsedSeconds(now),
		Streak:         st.Current,
		CompletedAt:    now.UTC(),
	}, nil
}

// BuildEndless assembles the record for an endless win.
func BuildEndless(displayName string, st streak.State) EndlessRecord {
	return EndlessRecord{DisplayName: displayName, Score: st.Best}
}
