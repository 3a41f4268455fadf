// Package daily derives the shared daily puzzle from the calendar date.
//
// Every player on a given date key gets the same target cell; no server
// coordination is needed because the derivation is pure arithmetic over
// the date string.
package daily

import (
	"time"
	"unicode/utf16"

	"github.com/robalobadob/defuse/internal/grid"
)

// Layout is the date key format (ISO calendar date).
const Layout = "2006-01-02"

// DateKey returns YYYY-MM-DD for t in loc. A nil loc means time.Local.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Layout)
}

// Seed sums the UTF-16 code units of dateKey. It is order-independent and
// not cryptographic; it must stay bit-for-bit stable across releases.
func Seed(dateKey string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(dateKey)) {
		sum += int(u)
	}
	return sum
}

// Target returns the bomb cell for dateKey on a gridSize×gridSize board:
// row = seed mod n, col = seed*7 mod n.
func Target(dateKey string, gridSize int) grid.Coord {
	if gridSize <= 0 {
		return grid.Coord{}
	}
	seed := Seed(dateKey)
	return grid.Coord{
		Row: seed % gridSize,
		Col: (seed * 7) % gridSize,
	}
}

// Parse reads a date key as midnight UTC of that calendar day.
func Parse(dateKey string) (time.Time, error) {
	return time.Parse(Layout, dateKey)
}

// Yesterday returns the calendar day before dateKey.
func Yesterday(dateKey string) (string, error) {
	t, err := Parse(dateKey)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(Layout), nil
}
