package play

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/defuse/internal/config"
	"github.com/robalobadob/defuse/internal/daily"
	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/grid"
	"github.com/robalobadob/defuse/internal/hint"
	"github.com/robalobadob/defuse/internal/leaderboard"
	"github.com/robalobadob/defuse/internal/profile"
	"github.com/robalobadob/defuse/internal/score"
	"github.com/robalobadob/defuse/internal/store"
	"github.com/robalobadob/defuse/internal/streak"
	"github.com/robalobadob/defuse/internal/theme"
)

// fakeBoard is an in-memory leaderboard that can be told to fail.
type fakeBoard struct {
	mu      sync.Mutex
	daily   []score.DailyRecord
	endless []score.EndlessRecord
	err     error
}

func (b *fakeBoard) setErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

func (b *fakeBoard) InsertDaily(_ context.Context, r score.DailyRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.daily = append(b.daily, r)
	return nil
}

func (b *fakeBoard) InsertEndless(_ context.Context, r score.EndlessRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.endless = append(b.endless, r)
	return nil
}

func (b *fakeBoard) TopDaily(_ context.Context, date string, _ int) ([]leaderboard.DailyRow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	out := []leaderboard.DailyRow{}
	for _, r := range b.daily {
		if r.DateKey == date {
			out = append(out, leaderboard.DailyRow{DisplayName: r.DisplayName, ElapsedSeconds: r.ElapsedSeconds, Streak: r.Streak})
		}
	}
	return out, nil
}

func (b *fakeBoard) TopEndless(context.Context, int) ([]leaderboard.EndlessRow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	out := []leaderboard.EndlessRow{}
	for _, r := range b.endless {
		out = append(out, leaderboard.EndlessRow{DisplayName: r.DisplayName, Score: r.Score})
	}
	return out, nil
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// flakyProfiles wraps a Backend and fails chosen keys until healed.
type flakyProfiles struct {
	profile.Backend
	mu      sync.Mutex
	failGet map[string]bool
	failSet map[string]bool
}

var errDiskBusy = errors.New("disk busy")

func newFlakyProfiles(inner profile.Backend) *flakyProfiles {
	return &flakyProfiles{Backend: inner, failGet: map[string]bool{}, failSet: map[string]bool{}}
}

func (f *flakyProfiles) breakGet(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet[key] = true
}

func (f *flakyProfiles) breakSet(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet[key] = true
}

func (f *flakyProfiles) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = map[string]bool{}
	f.failSet = map[string]bool{}
}

func (f *flakyProfiles) fails(set map[string]bool, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return set[key]
}

func (f *flakyProfiles) KV(playerID string) profile.KV {
	return &flakyKV{KV: f.Backend.KV(playerID), f: f}
}

type flakyKV struct {
	profile.KV
	f *flakyProfiles
}

func (k *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if k.f.fails(k.f.failGet, key) {
		return "", false, errDiskBusy
	}
	return k.KV.Get(ctx, key)
}

func (k *flakyKV) Set(ctx context.Context, key, value string) error {
	if k.f.fails(k.f.failSet, key) {
		return errDiskBusy
	}
	return k.KV.Set(ctx, key, value)
}

type harness struct {
	svc      *Service
	board    *fakeBoard
	profiles profile.Backend // the healthy store underneath flaky
	flaky    *flakyProfiles
	clock    *clock
}

const player = "player-1"

func testConfig() config.Config {
	return config.Config{
		Location:            time.UTC,
		Daily:               game.Config{GridSize: 5, MaxTries: 5},
		Endless:             game.Config{GridSize: 5, MaxTries: 5},
		EndlessUnlockStreak: 3,
		Lockout:             streak.LockoutAnyOutcome,
		ShareURL:            "https://defuse.example",
		PublishTimeout:      time.Second,
	}
}

func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	h := &harness{
		board:    &fakeBoard{},
		profiles: profile.NewMemoryBackend(),
		clock:    &clock{t: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)},
	}
	h.flaky = newFlakyProfiles(h.profiles)
	h.svc = New(cfg, h.flaky, store.NewMemoryStore(), h.board,
		WithClock(h.clock.now),
		WithRandomTarget(func(int) grid.Coord { return grid.Coord{Row: 2, Col: 3} }),
	)
	return h
}

func (h *harness) seed(t *testing.T, name string, st streak.State) {
	t.Helper()
	kv := h.profiles.KV(player)
	require.NoError(t, profile.SaveStreak(context.Background(), kv, st))
	if name != "" {
		require.NoError(t, profile.SaveDisplayName(context.Background(), kv, name))
	}
}

func (h *harness) today() string { return daily.DateKey(h.clock.t, time.UTC) }

// misses returns n cells that are not target.
func misses(target grid.Coord, size, n int) []grid.Coord {
	var out []grid.Coord
	for r := 0; r < size && len(out) < n; r++ {
		for c := 0; c < size && len(out) < n; c++ {
			if (grid.Coord{Row: r, Col: c}) != target {
				out = append(out, grid.Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

func TestDailyWinExtendsStreakAndPublishes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "ana", streak.State{Current: 4, Best: 4, LastPlayed: "2025-06-14", LastOutcome: streak.Won})

	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	target := daily.Target(h.today(), 5)
	assert.Equal(t, target, p.Session.Target)
	assert.Equal(t, h.today(), p.Session.DateKey)

	miss := misses(target, 5, 1)[0]
	h.clock.advance(10 * time.Second)
	res, err := h.svc.Guess(ctx, player, game.ModeDaily, miss)
	require.NoError(t, err)
	assert.False(t, res.Resolved)
	assert.Equal(t, game.StatusInProgress, res.Session.Status)

	h.clock.advance(20 * time.Second)
	res, err = h.svc.Guess(ctx, player, game.ModeDaily, target)
	require.NoError(t, err)
	assert.Equal(t, hint.TierExact, res.Tier)
	assert.True(t, res.Resolved)
	assert.Equal(t, game.StatusWon, res.Session.Status)
	assert.Equal(t, 5, res.Streak.Current)
	assert.Equal(t, 5, res.Streak.Best)

	h.svc.Wait()
	require.Len(t, h.board.daily, 1)
	rec := h.board.daily[0]
	assert.Equal(t, player, rec.Identity)
	assert.Equal(t, "ana", rec.DisplayName)
	assert.Equal(t, h.today(), rec.DateKey)
	assert.Equal(t, 30, rec.ElapsedSeconds)
	assert.Equal(t, 5, rec.Streak)

	// persisted
	saved, err := profile.Load(ctx, h.profiles.KV(player))
	require.NoError(t, err)
	assert.Equal(t, res.Streak, saved.Streak)
	assert.Empty(t, h.svc.Notices(player))
}

func TestDailyLossLocksOut(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "ana", streak.State{Current: 6, Best: 9, LastPlayed: "2025-06-14", LastOutcome: streak.Won})

	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)

	var res GuessResult
	for _, c := range misses(p.Session.Target, 5, 5) {
		res, err = h.svc.Guess(ctx, player, game.ModeDaily, c)
		require.NoError(t, err)
	}
	assert.Equal(t, game.StatusLost, res.Session.Status)
	assert.True(t, res.Resolved)
	assert.Equal(t, streak.State{Current: 0, Best: 9, LastPlayed: h.today(), LastOutcome: streak.Lost}, res.Streak)

	h.svc.Wait()
	assert.Empty(t, h.board.daily)

	_, err = h.svc.StartDaily(ctx, player)
	assert.ErrorIs(t, err, ErrLockedOut)

	ov, err := h.svc.Overview(ctx, player)
	require.NoError(t, err)
	assert.True(t, ov.DailyLocked)

	// the lock lifts the next day
	h.clock.advance(24 * time.Hour)
	p, err = h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", p.Session.DateKey)
}

func TestWinOnlyLockoutAllowsRetryAfterLoss(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Lockout = streak.LockoutWinOnly
	h := newHarness(t, cfg)

	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	for _, c := range misses(p.Session.Target, 5, 5) {
		_, err = h.svc.Guess(ctx, player, game.ModeDaily, c)
		require.NoError(t, err)
	}

	p, err = h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	assert.Empty(t, p.Session.Guesses)

	_, err = h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
	require.NoError(t, err)

	_, err = h.svc.StartDaily(ctx, player)
	assert.ErrorIs(t, err, ErrLockedOut)
}

func TestStartDailyResumesInProgress(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())

	first, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	miss := misses(first.Session.Target, 5, 1)[0]
	_, err = h.svc.Guess(ctx, player, game.ModeDaily, miss)
	require.NoError(t, err)

	again, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, first.Session.ID, again.Session.ID)
	assert.Equal(t, []grid.Coord{miss}, again.Session.Guesses)
}

func TestDuplicateGuessIsRejected(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	miss := misses(p.Session.Target, 5, 1)[0]

	_, err = h.svc.Guess(ctx, player, game.ModeDaily, miss)
	require.NoError(t, err)
	res, err := h.svc.Guess(ctx, player, game.ModeDaily, miss)
	assert.ErrorIs(t, err, game.ErrDuplicateGuess)
	assert.Len(t, res.Session.Guesses, 1)
	assert.Equal(t, 4, res.Session.TriesRemaining)
}

func TestGuessWithoutSession(t *testing.T) {
	h := newHarness(t, testConfig())
	_, err := h.svc.Guess(context.Background(), player, game.ModeDaily, grid.Coord{})
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = h.svc.Guess(context.Background(), player, game.Mode("blitz"), grid.Coord{})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestConsecutiveDays(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "ana", streak.State{})

	for day := 1; day <= 3; day++ {
		p, err := h.svc.StartDaily(ctx, player)
		require.NoError(t, err)
		res, err := h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
		require.NoError(t, err)
		assert.Equal(t, day, res.Streak.Current)
		h.clock.advance(24 * time.Hour)
	}

	// skip a day
	h.clock.advance(24 * time.Hour)
	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	res, err := h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak.Current)
	assert.Equal(t, 3, res.Streak.Best)

	h.svc.Wait()
	assert.Len(t, h.board.daily, 4)
}

func TestEndlessScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	st := streak.State{Current: 3, Best: 8, LastPlayed: "2025-06-14", LastOutcome: streak.Won}
	h.seed(t, "ana", st)

	p, err := h.svc.StartEndless(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, grid.Coord{Row: 2, Col: 3}, p.Session.Target)

	steps := []struct {
		c    grid.Coord
		want hint.Tier
	}{
		{grid.Coord{Row: 0, Col: 0}, hint.TierCold},
		{grid.Coord{Row: 2, Col: 2}, hint.TierAdjacent},
		{grid.Coord{Row: 2, Col: 3}, hint.TierExact},
	}
	var res GuessResult
	for _, s := range steps {
		res, err = h.svc.Guess(ctx, player, game.ModeEndless, s.c)
		require.NoError(t, err)
		assert.Equal(t, s.want, res.Tier)
	}
	assert.Equal(t, game.StatusWon, res.Session.Status)
	assert.Len(t, res.Session.Guesses, 3)
	assert.False(t, res.Resolved)
	assert.Equal(t, st, res.Streak, "endless must not touch the streak")

	h.svc.Wait()
	assert.Equal(t, []score.EndlessRecord{{DisplayName: "ana", Score: 8}}, h.board.endless)
}

func TestEndlessGate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "", streak.State{Current: 2, Best: 10, LastPlayed: "2025-06-14", LastOutcome: streak.Won})

	_, err := h.svc.StartEndless(ctx, player)
	assert.ErrorIs(t, err, ErrEndlessLocked)

	ov, err := h.svc.Overview(ctx, player)
	require.NoError(t, err)
	assert.False(t, ov.EndlessUnlocked)
}

func TestEndlessLossLeavesStreakAlone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	st := streak.State{Current: 5, Best: 5, LastPlayed: "2025-06-14", LastOutcome: streak.Won}
	h.seed(t, "ana", st)

	_, err := h.svc.StartEndless(ctx, player)
	require.NoError(t, err)
	var res GuessResult
	for _, c := range misses(grid.Coord{Row: 2, Col: 3}, 5, 5) {
		res, err = h.svc.Guess(ctx, player, game.ModeEndless, c)
		require.NoError(t, err)
	}
	assert.Equal(t, game.StatusLost, res.Session.Status)

	saved, err := profile.Load(ctx, h.profiles.KV(player))
	require.NoError(t, err)
	assert.Equal(t, st, saved.Streak)

	// a fresh endless session every time
	p, err := h.svc.StartEndless(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, game.StatusInProgress, p.Session.Status)
	assert.NotEqual(t, res.Session.ID, p.Session.ID)
}

func TestStartDailyAbandonsEndless(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "", streak.State{Current: 3, Best: 3, LastPlayed: "2025-06-14", LastOutcome: streak.Won})

	_, err := h.svc.StartEndless(ctx, player)
	require.NoError(t, err)
	_, err = h.svc.StartDaily(ctx, player)
	require.NoError(t, err)

	_, err = h.svc.Current(ctx, player, game.ModeEndless)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = h.svc.Current(ctx, player, game.ModeDaily)
	assert.NoError(t, err)
}

func TestPublishFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "ana", streak.State{})
	h.board.setErr(errors.New("connection refused"))

	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	res, err := h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
	require.NoError(t, err)
	assert.Equal(t, game.StatusWon, res.Session.Status)
	assert.Equal(t, 1, res.Streak.Current)

	h.svc.Wait()
	saved, err := profile.Load(ctx, h.profiles.KV(player))
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Streak.Current)

	assert.Equal(t, []string{NoticeScoreNotSaved}, h.svc.Notices(player))
	assert.Empty(t, h.svc.Notices(player))
}

func TestWinWithoutNameSkipsPublish(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())

	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	_, err = h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
	require.NoError(t, err)

	h.svc.Wait()
	assert.Empty(t, h.board.daily)
	assert.Equal(t, []string{NoticeNameRequired}, h.svc.Notices(player))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())

	_, err := h.svc.Register(ctx, player, "   ")
	assert.ErrorIs(t, err, profile.ErrNameEmpty)
	ov, err := h.svc.Overview(ctx, player)
	require.NoError(t, err)
	assert.Empty(t, ov.Profile.DisplayName)
	assert.Equal(t, player, ov.Profile.Identity)

	p, err := h.svc.Register(ctx, player, "  ana ")
	require.NoError(t, err)
	assert.Equal(t, "ana", p.DisplayName)
}

func TestSelectTheme(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "", streak.State{Current: 3, Best: 3, LastPlayed: "2025-06-14", LastOutcome: streak.Won})

	_, err := h.svc.SelectTheme(ctx, player, theme.Retro)
	assert.ErrorIs(t, err, theme.ErrLocked)
	_, err = h.svc.SelectTheme(ctx, player, theme.Theme("sepia"))
	assert.ErrorIs(t, err, theme.ErrUnknown)

	p, err := h.svc.SelectTheme(ctx, player, theme.Neon)
	require.NoError(t, err)
	assert.Equal(t, theme.Neon, p.Theme)

	started, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, theme.Neon, started.Theme)

	// losing the streak falls back to the default look without forgetting the choice
	for _, c := range misses(started.Session.Target, 5, 5) {
		_, err = h.svc.Guess(ctx, player, game.ModeDaily, c)
		require.NoError(t, err)
	}
	cur, err := h.svc.Current(ctx, player, game.ModeDaily)
	require.NoError(t, err)
	assert.Equal(t, theme.Default, cur.Theme)

	saved, err := profile.Load(ctx, h.profiles.KV(player))
	require.NoError(t, err)
	assert.Equal(t, theme.Neon, saved.Theme)
}

func TestLeaderboardServesStaleRowsOnFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.board.daily = []score.DailyRecord{{DisplayName: "ana", DateKey: "2025-06-15", ElapsedSeconds: 12, Streak: 2}}
	h.board.endless = []score.EndlessRecord{{DisplayName: "bea", Score: 4}}

	date, b, err := h.svc.DailyLeaderboard(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", date)
	assert.False(t, b.Stale)
	require.Len(t, b.Rows, 1)

	e, err := h.svc.EndlessLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, e.Rows, 1)

	h.board.setErr(errors.New("timeout"))

	_, b, err = h.svc.DailyLeaderboard(ctx, "2025-06-15")
	require.NoError(t, err)
	assert.True(t, b.Stale)
	assert.Equal(t, "ana", b.Rows[0].DisplayName)

	e, err = h.svc.EndlessLeaderboard(ctx)
	require.NoError(t, err)
	assert.True(t, e.Stale)

	_, _, err = h.svc.DailyLeaderboard(ctx, "2025-06-01")
	assert.Error(t, err)

	_, _, err = h.svc.DailyLeaderboard(ctx, "June 1st")
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestShare(t *testing.T) {
	h := newHarness(t, testConfig())
	h.seed(t, "", streak.State{Current: 1, Best: 7, LastPlayed: "2025-06-14", LastOutcome: streak.Won})
	assert.Equal(t,
		"I've got a 7-day defuse streak on Defuse! Can you top it? 🔥 https://defuse.example",
		h.svc.Share(context.Background(), player))
}

func TestProfileReadFailureLeavesStreakAlone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	st := streak.State{Current: 0, Best: 10, LastPlayed: "2025-06-10", LastOutcome: streak.Lost}
	h.seed(t, "ana", st)

	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)

	h.flaky.breakGet(profile.KeyBestStreak)
	_, err = h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
	assert.ErrorIs(t, err, ErrProfileUnavailable)
	assert.ErrorIs(t, err, errDiskBusy)

	saved, err := profile.Load(ctx, h.profiles.KV(player))
	require.NoError(t, err)
	assert.Equal(t, st, saved.Streak)

	cur, err := h.svc.Current(ctx, player, game.ModeDaily)
	require.NoError(t, err)
	assert.Empty(t, cur.Session.Guesses, "the guess must not be applied")

	h.flaky.heal()
	res, err := h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
	require.NoError(t, err)
	assert.Equal(t, game.StatusWon, res.Session.Status)
	assert.Equal(t, 1, res.Streak.Current)
	assert.Equal(t, 10, res.Streak.Best)
	h.svc.Wait()
}

func TestProfileReadFailureKeepsLockout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "", streak.State{Current: 4, Best: 4, LastPlayed: "2025-06-15", LastOutcome: streak.Won})

	h.flaky.breakGet(profile.KeyLastPlayed)
	p, err := h.svc.StartDaily(ctx, player)
	assert.ErrorIs(t, err, ErrProfileUnavailable)
	assert.Nil(t, p.Session)

	_, err = h.svc.StartEndless(ctx, player)
	assert.ErrorIs(t, err, ErrProfileUnavailable)

	_, err = h.svc.SelectTheme(ctx, player, theme.Neon)
	assert.ErrorIs(t, err, ErrProfileUnavailable)

	// reads keep working on what could be loaded
	_, err = h.svc.Overview(ctx, player)
	assert.NoError(t, err)

	h.flaky.heal()
	_, err = h.svc.StartDaily(ctx, player)
	assert.ErrorIs(t, err, ErrLockedOut)
}

func TestStreakWriteFailureQueuesNotice(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig())
	h.seed(t, "ana", streak.State{})

	p, err := h.svc.StartDaily(ctx, player)
	require.NoError(t, err)

	h.flaky.breakSet(profile.KeyStreak)
	res, err := h.svc.Guess(ctx, player, game.ModeDaily, p.Session.Target)
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.Equal(t, 1, res.Streak.Current)

	h.svc.Wait()
	assert.Equal(t, []string{NoticeStreakNotSaved}, h.svc.Notices(player))
	require.Len(t, h.board.daily, 1, "a local write failure does not block publishing")
}
