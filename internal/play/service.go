// internal/play/service.go
//
// Orchestration for one Defuse server.
// Responsibilities:
//   - Load a player's profile, start daily/endless sessions, apply guesses.
//   - Resolve the daily streak when a daily session ends and persist it.
//   - Build score records on wins and publish them without waiting.
//   - Keep a per-player queue of non-fatal notices (e.g. a failed publish).
//
// Notes:
//   - The streak is written only here, only from a resolving daily session.
//   - A publish failure never rolls back local state; the player is told
//     through Notices and the board simply misses the row.
//   - One mutex serialises every mutation.
package play

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/internal/config"
	"github.com/robalobadob/defuse/internal/daily"
	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/grid"
	"github.com/robalobadob/defuse/internal/hint"
	"github.com/robalobadob/defuse/internal/leaderboard"
	"github.com/robalobadob/defuse/internal/profile"
	"github.com/robalobadob/defuse/internal/score"
	"github.com/robalobadob/defuse/internal/share"
	"github.com/robalobadob/defuse/internal/store"
	"github.com/robalobadob/defuse/internal/streak"
	"github.com/robalobadob/defuse/internal/theme"
)

var (
	ErrLockedOut     = errors.New("daily puzzle already played today")
	ErrEndlessLocked = errors.New("endless mode locked")
	ErrNoSession     = errors.New("no active session")
	ErrInvalidMode   = errors.New("invalid mode")
	ErrBadDate       = errors.New("invalid date")

	// ErrProfileUnavailable means the player's stored state could not be
	// read; anything that would write the streak refuses rather than
	// overwrite it with repaired defaults.
	ErrProfileUnavailable = errors.New("profile unavailable")
)

// Notices shown to the player.
const (
	NoticeScoreNotSaved  = "Your score couldn't be posted to the leaderboard."
	NoticeStreakNotSaved = "Your streak couldn't be saved on this device."
	NoticeNameRequired   = "Set a display name to appear on the leaderboard."
)

// Service ties the engine to profile storage, active sessions and the leaderboard.
type Service struct {
	cfg      config.Config
	profiles profile.Backend
	sessions store.Store
	board    leaderboard.Store

	now          func() time.Time
	randomTarget func(size int) grid.Coord
	newIdentity  func() string

	mu      sync.Mutex // serialises mutations
	pending sync.WaitGroup

	noticeMu sync.Mutex
	notices  map[string][]string

	cache *boardCache
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithRandomTarget replaces the endless-mode target provider.
func WithRandomTarget(fn func(size int) grid.Coord) Option {
	return func(s *Service) { s.randomTarget = fn }
}

// WithIdentityProvider replaces the identity token generator.
func WithIdentityProvider(fn func() string) Option {
	return func(s *Service) { s.newIdentity = fn }
}

// New constructs a Service.
func New(cfg config.Config, profiles profile.Backend, sessions store.Store, board leaderboard.Store, opts ...Option) *Service {
	s := &Service{
		cfg:          cfg,
		profiles:     profiles,
		sessions:     sessions,
		board:        board,
		now:          time.Now,
		randomTarget: grid.Random,
		newIdentity:  uuid.NewString,
		notices:      make(map[string][]string),
		cache:        newBoardCache(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg.Location == nil {
		s.cfg.Location = time.Local
	}
	if s.cfg.PublishTimeout <= 0 {
		s.cfg.PublishTimeout = 5 * time.Second
	}
	return s
}

// Play is a session together with what is needed to draw it.
type Play struct {
	Session *game.Session
	Theme   theme.Theme
	Streak  streak.State
}

// GuessResult is the outcome of one accepted guess.
type GuessResult struct {
	Play
	Tier hint.Tier
	// Resolved is true when this guess ended a daily session and the
	// streak was updated.
	Resolved bool
}

// Overview is what a player sees on arrival.
type Overview struct {
	Profile         profile.Profile `json:"profile"`
	Today           string          `json:"today"`
	DailyLocked     bool            `json:"dailyLocked"`
	EndlessUnlocked bool            `json:"endlessUnlocked"`
	UnlockedThemes  []theme.Theme   `json:"unlockedThemes"`
}

// NewIdentity mints an identity token for a first-time player.
func (s *Service) NewIdentity() string { return s.newIdentity() }

// Now is the service clock.
func (s *Service) Now() time.Time { return s.now() }

// Today is the current date key in the configured zone.
func (s *Service) Today() string { return daily.DateKey(s.now(), s.cfg.Location) }

// load reads the profile, repairing missing or corrupt values and filling
// in the identity. A store failure is returned wrapped in
// ErrProfileUnavailable together with the partial profile; read-only
// callers may use it, writers must not.
func (s *Service) load(ctx context.Context, playerID string) (profile.KV, *profile.Profile, error) {
	kv := s.profiles.KV(playerID)
	p, err := profile.Load(ctx, kv)
	if err != nil {
		log.Warn().Err(err).Str("player", playerID).Msg("load profile")
		if p.Identity == "" {
			p.Identity = playerID
		}
		return kv, p, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	if p.Identity == "" {
		p.Identity = playerID
		if err := profile.SaveIdentity(ctx, kv, playerID); err != nil {
			log.Warn().Err(err).Str("player", playerID).Msg("save identity")
		}
	}
	return kv, p, nil
}

// effectiveTheme is the selected theme if still unlocked, else the default.
func effectiveTheme(p *profile.Profile) theme.Theme {
	if theme.IsUnlocked(p.Theme, p.Streak.Current) {
		return p.Theme
	}
	return theme.Default
}

// Overview returns the player's profile and what is currently available.
func (s *Service) Overview(ctx context.Context, playerID string) (Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, p, _ := s.load(ctx, playerID)
	today := s.Today()
	return Overview{
		Profile:         *p,
		Today:           today,
		DailyLocked:     streak.Locked(p.Streak, today, s.cfg.Lockout),
		EndlessUnlocked: p.Streak.Current >= s.cfg.EndlessUnlockStreak,
		UnlockedThemes:  theme.Unlocked(p.Streak.Current),
	}, nil
}

// Register sets the player's display name. Invalid names change nothing.
func (s *Service) Register(ctx context.Context, playerID, displayName string) (*profile.Profile, error) {
	name, err := profile.ValidateDisplayName(displayName)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, p, _ := s.load(ctx, playerID) // the name key stands alone
	if err := profile.SaveDisplayName(ctx, kv, name); err != nil {
		return nil, err
	}
	p.DisplayName = name
	return p, nil
}

// SelectTheme changes the player's theme if it is unlocked.
func (s *Service) SelectTheme(ctx context.Context, playerID string, t theme.Theme) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, p, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := theme.Select(t, p.Streak.Current); err != nil {
		return nil, err
	}
	if err := profile.SaveTheme(ctx, kv, t); err != nil {
		return nil, err
	}
	p.Theme = t
	return p, nil
}

// StartDaily returns today's daily session, resuming one in progress.
// Any endless session is abandoned. Returns ErrLockedOut once today's
// attempt has been resolved.
func (s *Service) StartDaily(ctx context.Context, playerID string) (Play, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := daily.DateKey(now, s.cfg.Location)
	_, p, err := s.load(ctx, playerID)
	if err != nil {
		return Play{}, err
	}

	if err := s.sessions.Delete(ctx, playerID, game.ModeEndless); err != nil {
		log.Warn().Err(err).Str("player", playerID).Msg("drop endless session")
	}

	if cur, err := s.sessions.Get(ctx, playerID, game.ModeDaily); err == nil && cur.DateKey == today && !cur.Finished() {
		return s.play(cur, p), nil
	}
	if streak.Locked(p.Streak, today, s.cfg.Lockout) {
		return Play{Theme: effectiveTheme(p), Streak: p.Streak}, ErrLockedOut
	}

	sess, err := game.New(game.ModeDaily, daily.Target(today, s.cfg.Daily.GridSize), s.cfg.Daily, now)
	if err != nil {
		return Play{}, err
	}
	sess.DateKey = today
	if err := s.sessions.Save(ctx, playerID, sess); err != nil {
		return Play{}, err
	}
	log.Info().Str("player", playerID).Str("date", today).Str("session", sess.ID).Msg("daily started")
	return s.play(sess, p), nil
}

// StartEndless always starts a fresh endless session with a random target.
// Requires a current streak of at least the configured threshold.
func (s *Service) StartEndless(ctx context.Context, playerID string) (Play, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, p, err := s.load(ctx, playerID)
	if err != nil {
		return Play{}, err
	}
	if p.Streak.Current < s.cfg.EndlessUnlockStreak {
		return Play{Theme: effectiveTheme(p), Streak: p.Streak}, ErrEndlessLocked
	}

	sess, err := game.New(game.ModeEndless, s.randomTarget(s.cfg.Endless.GridSize), s.cfg.Endless, s.now())
	if err != nil {
		return Play{}, err
	}
	if err := s.sessions.Save(ctx, playerID, sess); err != nil {
		return Play{}, err
	}
	log.Debug().Str("player", playerID).Str("session", sess.ID).Msg("endless started")
	return s.play(sess, p), nil
}

// Current returns the player's live session for mode.
func (s *Service) Current(ctx context.Context, playerID string, mode game.Mode) (Play, error) {
	if !mode.Valid() {
		return Play{}, ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessions.Get(ctx, playerID, mode)
	if err != nil {
		return Play{}, ErrNoSession
	}
	_, p, _ := s.load(ctx, playerID)
	return s.play(sess, p), nil
}

// Guess applies c to the player's session for mode.
//
// Engine rejections (game.ErrFinished, game.ErrDuplicateGuess,
// game.ErrOutOfBounds) are returned with the unchanged session.
// When a daily session ends the streak is resolved and saved before
// returning; a daily or endless win is published in the background.
func (s *Service) Guess(ctx context.Context, playerID string, mode game.Mode, c grid.Coord) (GuessResult, error) {
	if !mode.Valid() {
		return GuessResult{}, ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, playerID, mode)
	if err != nil {
		return GuessResult{}, ErrNoSession
	}
	kv, p, err := s.load(ctx, playerID)
	if err != nil {
		return GuessResult{}, err
	}
	now := s.now()

	tier, err := sess.SubmitGuess(c, now)
	if err != nil {
		return GuessResult{Play: s.play(sess, p)}, err
	}
	if err := s.sessions.Save(ctx, playerID, sess); err != nil {
		log.Warn().Err(err).Str("player", playerID).Str("mode", string(mode)).Msg("save session")
	}
	res := GuessResult{Tier: tier}

	if sess.Finished() {
		won := sess.Status == game.StatusWon
		switch sess.Mode {
		case game.ModeDaily:
			outcome := streak.Lost
			if won {
				outcome = streak.Won
			}
			next := streak.Resolve(outcome, p.Streak, sess.DateKey)
			if err := profile.SaveStreak(ctx, kv, next); err != nil {
				log.Warn().Err(err).Str("player", playerID).Msg("save streak")
				s.notify(playerID, NoticeStreakNotSaved)
			}
			p.Streak = next
			res.Resolved = true
			log.Info().Str("player", playerID).Str("date", sess.DateKey).
				Str("status", string(sess.Status)).Int("streak", next.Current).Msg("daily resolved")

			if won {
				rec, err := score.BuildDaily(p.Identity, p.DisplayName, sess, next, now)
				if err == nil {
					s.publishDaily(playerID, rec)
				}
			}
		case game.ModeEndless:
			if won {
				s.publishEndless(playerID, score.BuildEndless(p.DisplayName, p.Streak))
			}
		}
	}

	res.Play = s.play(sess, p)
	return res, nil
}

func (s *Service) play(sess *game.Session, p *profile.Profile) Play {
	return Play{Session: sess.Clone(), Theme: effectiveTheme(p), Streak: p.Streak}
}

// Share returns the brag text for the player's best streak.
func (s *Service) Share(ctx context.Context, playerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, p, _ := s.load(ctx, playerID)
	return share.Text(p.Streak.Best, s.cfg.ShareURL)
}

// Wait blocks until in-flight leaderboard writes finish.
func (s *Service) Wait() { s.pending.Wait() }
