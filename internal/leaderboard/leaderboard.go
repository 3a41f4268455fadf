// Package leaderboard persists winning score records and serves the top
// of each board. Both boards are append-only from the game's point of view.
package leaderboard

import (
	"context"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/defuse/internal/score"
)

// DefaultLimit is the number of rows a board shows.
const DefaultLimit = 10

// timeLayout keeps stored timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Store is the remote leaderboard.
type Store interface {
	// InsertDaily records a daily win. A second win for the same player
	// and date is ignored.
	InsertDaily(ctx context.Context, r score.DailyRecord) error
	// InsertEndless records an endless win.
	InsertEndless(ctx context.Context, r score.EndlessRecord) error
	// TopDaily returns the fastest wins for dateKey: elapsed ascending,
	// then streak descending.
	TopDaily(ctx context.Context, dateKey string, limit int) ([]DailyRow, error)
	// TopEndless returns the highest endless scores.
	TopEndless(ctx context.Context, limit int) ([]EndlessRow, error)
}

// DailyRow is one line of the daily board.
type DailyRow struct {
	DisplayName    string    `json:"displayName"`
	ElapsedSeconds int       `json:"elapsedSeconds"`
	Streak         int       `json:"streak"`
	CompletedAt    time.Time `json:"completedAt"`
}

// EndlessRow is one line of the endless board.
type EndlessRow struct {
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// PlayerKey is the public stand-in for an identity token: a blake2b-256
// digest, so the board never holds a token that could be replayed.
func PlayerKey(identity string) string {
	sum := blake2b.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
