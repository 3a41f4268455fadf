package play

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/internal/daily"
	"github.com/robalobadob/defuse/internal/leaderboard"
)

// Board is a leaderboard read. Stale is set when the store could not be
// reached and the rows come from the last successful read.
type Board[T any] struct {
	Rows  []T  `json:"rows"`
	Stale bool `json:"stale"`
}

// boardCache remembers the last good read per board.
type boardCache struct {
	mu      sync.Mutex
	daily   map[string][]leaderboard.DailyRow
	endless []leaderboard.EndlessRow
}

func newBoardCache() *boardCache {
	return &boardCache{daily: make(map[string][]leaderboard.DailyRow)}
}

// DailyLeaderboard returns the top daily wins for date (today when empty).
func (s *Service) DailyLeaderboard(ctx context.Context, date string) (string, Board[leaderboard.DailyRow], error) {
	if date == "" {
		date = s.Today()
	} else if _, err := daily.Parse(date); err != nil {
		return date, Board[leaderboard.DailyRow]{}, ErrBadDate
	}

	rows, err := s.board.TopDaily(ctx, date, leaderboard.DefaultLimit)
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if err != nil {
		cached, ok := s.cache.daily[date]
		if !ok {
			return date, Board[leaderboard.DailyRow]{}, err
		}
		log.Warn().Err(err).Str("date", date).Msg("daily leaderboard read failed, serving cached rows")
		return date, Board[leaderboard.DailyRow]{Rows: cached, Stale: true}, nil
	}
	s.cache.daily[date] = rows
	return date, Board[leaderboard.DailyRow]{Rows: rows}, nil
}

// EndlessLeaderboard returns the top endless scores.
func (s *Service) EndlessLeaderboard(ctx context.Context) (Board[leaderboard.EndlessRow], error) {
	rows, err := s.board.TopEndless(ctx, leaderboard.DefaultLimit)
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if err != nil {
		if s.cache.endless == nil {
			return Board[leaderboard.EndlessRow]{}, err
		}
		log.Warn().Err(err).Msg("endless leaderboard read failed, serving cached rows")
		return Board[leaderboard.EndlessRow]{Rows: s.cache.endless, Stale: true}, nil
	}
	s.cache.endless = rows
	return Board[leaderboard.EndlessRow]{Rows: rows}, nil
}
