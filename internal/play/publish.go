package play

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/internal/score"
)

// publishDaily writes rec in the background. The caller's state is already
// committed; a failure only queues a notice.
func (s *Service) publishDaily(playerID string, rec score.DailyRecord) {
	if rec.DisplayName == "" {
		s.notify(playerID, NoticeNameRequired)
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PublishTimeout)
		defer cancel()
		if err := s.board.InsertDaily(ctx, rec); err != nil {
			log.Warn().Err(err).Str("player", playerID).Str("date", rec.DateKey).Msg("publish daily score")
			s.notify(playerID, NoticeScoreNotSaved)
			return
		}
		log.Debug().Str("player", playerID).Str("date", rec.DateKey).Int("elapsed", rec.ElapsedSeconds).Msg("daily score published")
	}()
}

// publishEndless is publishDaily for the endless board.
func (s *Service) publishEndless(playerID string, rec score.EndlessRecord) {
	if rec.DisplayName == "" {
		s.notify(playerID, NoticeNameRequired)
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PublishTimeout)
		defer cancel()
		if err := s.board.InsertEndless(ctx, rec); err != nil {
			log.Warn().Err(err).Str("player", playerID).Msg("publish endless score")
			s.notify(playerID, NoticeScoreNotSaved)
			return
		}
	}()
}

func (s *Service) notify(playerID, msg string) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	s.notices[playerID] = append(s.notices[playerID], msg)
}

// Notices drains the player's pending notices.
func (s *Service) Notices(playerID string) []string {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	out := s.notices[playerID]
	delete(s.notices, playerID)
	if out == nil {
		out = []string{}
	}
	return out
}
