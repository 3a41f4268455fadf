// internal/profile/profile.go
//
// Player profile: the small set of values a device keeps between visits.
// Responsibilities:
//   - Load every key independently and repair anything missing or corrupt.
//   - Save each value on its own mutation (no transactional grouping).
//   - Validate display names before they are stored.
//
// Notes:
//   - Keys mirror the browser build's local-storage names so exported
//     device state can be imported as-is.
//   - The engine never touches a KV directly; play.Service loads a Profile
//     at the start of a request and writes back through the Save* helpers.

package profile

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/defuse/internal/daily"
	"github.com/robalobadob/defuse/internal/streak"
	"github.com/robalobadob/defuse/internal/theme"
)

// Storage keys.
const (
	KeyStreak      = "defuseStreak"
	KeyBestStreak  = "defuseBestStreak"
	KeyLastPlayed  = "defuseLastPlayed"
	KeyLastOutcome = "defuseLastOutcome"
	KeyTheme       = "defuseTheme"
	KeyIdentity    = "defuseIdentity"
	KeyDisplayName = "defuseDisplayName"
)

// MaxNameLen is the longest display name accepted, in runes.
const MaxNameLen = 24

var (
	ErrNameEmpty   = errors.New("display name is empty")
	ErrNameTooLong = errors.New("display name too long")
)

// KV is a string-valued key/value store scoped to one player.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Backend hands out a KV namespace per player.
type Backend interface {
	KV(playerID string) KV
}

// Profile is everything persisted for a player.
type Profile struct {
	Identity    string       `json:"identity"`
	DisplayName string       `json:"displayName"`
	Theme       theme.Theme  `json:"theme"`
	Streak      streak.State `json:"streak"`
}

// Load reads a profile. Missing or unparseable values are repaired
// silently: numbers become 0, Best is raised to Current, an unknown theme
// becomes theme.Default and a malformed date is dropped. Only a failing
// store returns an error; the partially loaded profile is still usable.
func Load(ctx context.Context, kv KV) (*Profile, error) {
	p := &Profile{Theme: theme.Default}
	var errs []error
	get := func(key string) string {
		v, _, err := kv.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	p.Streak.Current = parseCount(get(KeyStreak))
	p.Streak.Best = parseCount(get(KeyBestStreak))
	if p.Streak.Best < p.Streak.Current {
		p.Streak.Best = p.Streak.Current
	}
	if last := get(KeyLastPlayed); last != "" {
		if _, err := daily.Parse(last); err == nil {
			p.Streak.LastPlayed = last
		}
	}
	if p.Streak.LastPlayed != "" {
		switch o := streak.Outcome(get(KeyLastOutcome)); o {
		case streak.Won, streak.Lost:
			p.Streak.LastOutcome = o
		default:
			// older devices only stored the streak; a live streak implies a win
			if p.Streak.Current > 0 {
				p.Streak.LastOutcome = streak.Won
			} else {
				p.Streak.LastOutcome = streak.Lost
			}
		}
	}

	if th := theme.Theme(get(KeyTheme)); theme.Valid(th) {
		p.Theme = th
	}
	p.Identity = strings.TrimSpace(get(KeyIdentity))
	p.DisplayName = strings.TrimSpace(get(KeyDisplayName))

	return p, errors.Join(errs...)
}

// parseCount reads a non-negative integer; anything else is 0.
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SaveStreak writes the streak keys one by one. A failure part way leaves
// the earlier keys written; Load repairs the mix on the next read.
func SaveStreak(ctx context.Context, kv KV, s streak.State) error {
	pairs := [][2]string{
		{KeyStreak, strconv.Itoa(s.Current)},
		{KeyBestStreak, strconv.Itoa(s.Best)},
		{KeyLastPlayed, s.LastPlayed},
		{KeyLastOutcome, string(s.LastOutcome)},
	}
	var errs []error
	for _, kvp := range pairs {
		if err := kv.Set(ctx, kvp[0], kvp[1]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveTheme stores the selected theme.
func SaveTheme(ctx context.Context, kv KV, t theme.Theme) error {
	return kv.Set(ctx, KeyTheme, string(t))
}

// SaveIdentity stores the player's identity token.
func SaveIdentity(ctx context.Context, kv KV, id string) error {
	return kv.Set(ctx, KeyIdentity, id)
}

// SaveDisplayName stores an already validated display name.
func SaveDisplayName(ctx context.Context, kv KV, name string) error {
	return kv.Set(ctx, KeyDisplayName, name)
}

// ValidateDisplayName trims name and checks its length.
func ValidateDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}
