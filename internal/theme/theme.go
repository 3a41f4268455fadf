// Package theme owns the cosmetic themes: which are unlocked at a given
// streak and how a hint tier is drawn under each one.
package theme

import (
	"errors"

	"github.com/samber/lo"

	"github.com/robalobadob/defuse/internal/hint"
)

// Theme identifies a cosmetic skin.
type Theme string

const (
	Classic Theme = "classic"
	Neon    Theme = "neon"
	Retro   Theme = "retro"
	Inferno Theme = "inferno"
)

// Default is always unlocked.
const Default = Classic

var (
	ErrUnknown = errors.New("unknown theme")
	ErrLocked  = errors.New("theme locked")
)

// Token is how a tier is presented: a symbol and a background colour.
type Token struct {
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
}

type spec struct {
	threshold int
	tokens    map[hint.Tier]Token
	reveal    Token
}

// order is the display order of themes.
var order = []Theme{Classic, Neon, Retro, Inferno}

var themes = map[Theme]spec{
	Classic: {
		threshold: 0,
		tokens: map[hint.Tier]Token{
			hint.TierExact:    {"💥", "grey"},
			hint.TierAdjacent: {"🔥", "red"},
			hint.TierWarm:     {"🌡️", "orange"},
			hint.TierCold:     {"❄️", "blue"},
		},
		reveal: Token{"💣", "black"},
	},
	Neon: {
		threshold: 3,
		tokens: map[hint.Tier]Token{
			hint.TierExact:    {"💥", "#ff00ff"},
			hint.TierAdjacent: {"⚡", "#ff3864"},
			hint.TierWarm:     {"✨", "#f9c80e"},
			hint.TierCold:     {"🌀", "#2de2e6"},
		},
		reveal: Token{"💣", "#261447"},
	},
	Retro: {
		threshold: 7,
		tokens: map[hint.Tier]Token{
			hint.TierExact:    {"X", "#5c5c5c"},
			hint.TierAdjacent: {"!", "#c0392b"},
			hint.TierWarm:     {"~", "#d68910"},
			hint.TierCold:     {".", "#2874a6"},
		},
		reveal: Token{"*", "#000000"},
	},
	Inferno: {
		threshold: 14,
		tokens: map[hint.Tier]Token{
			hint.TierExact:    {"☄️", "#3b0a0a"},
			hint.TierAdjacent: {"🌋", "#b71c1c"},
			hint.TierWarm:     {"🔥", "#e65100"},
			hint.TierCold:     {"💨", "#546e7a"},
		},
		reveal: Token{"💣", "#1a0000"},
	},
}

// All returns every theme in display order.
func All() []Theme { return append([]Theme(nil), order...) }

// Valid reports whether t is one of the known themes.
func Valid(t Theme) bool {
	_, ok := themes[t]
	return ok
}

// Threshold is the current streak needed to unlock t.
func Threshold(t Theme) (int, bool) {
	s, ok := themes[t]
	return s.threshold, ok
}

// IsUnlocked reports whether t is available at the given current streak.
func IsUnlocked(t Theme, streak int) bool {
	s, ok := themes[t]
	return ok && streak >= s.threshold
}

// Unlocked returns the themes available at streak, in display order.
func Unlocked(streak int) []Theme {
	return lo.Filter(order, func(t Theme, _ int) bool {
		return IsUnlocked(t, streak)
	})
}

// Select validates a theme choice against the current streak.
func Select(t Theme, streak int) error {
	if !Valid(t) {
		return ErrUnknown
	}
	if !IsUnlocked(t, streak) {
		return ErrLocked
	}
	return nil
}

// Present maps a tier to its token under t. Unknown themes draw as Default.
func Present(t Theme, tier hint.Tier) Token {
	s, ok := themes[t]
	if !ok {
		s = themes[Default]
	}
	return s.tokens[tier]
}

// Reveal is the token for the bomb cell once a session has ended.
func Reveal(t Theme) Token {
	s, ok := themes[t]
	if !ok {
		s = themes[Default]
	}
	return s.reveal
}
