// Package hint classifies how close a revealed cell is to the bomb.
//
// Classification is theme independent; the theme package maps a Tier to
// what the player actually sees.
package hint

import "github.com/robalobadob/defuse/internal/grid"

// Tier is the discretised proximity of a cell to the target.
type Tier string

const (
	TierExact    Tier = "exact"    // the bomb itself
	TierAdjacent Tier = "adjacent" // one king-move away, diagonals included
	TierWarm     Tier = "warm"     // Manhattan distance ≤ 4
	TierCold     Tier = "cold"
)

// warmRadius is the inclusive Manhattan bound for TierWarm.
const warmRadius = 4

// Classify returns the tier for query relative to target.
// First match wins: Chebyshev 0, Chebyshev 1, Manhattan ≤ 4, otherwise cold.
func Classify(query, target grid.Coord) Tier {
	dRow := abs(query.Row - target.Row)
	dCol := abs(query.Col - target.Col)

	switch chebyshev := max(dRow, dCol); {
	case chebyshev == 0:
		return TierExact
	case chebyshev == 1:
		return TierAdjacent
	case dRow+dCol <= warmRadius:
		return TierWarm
	default:
		return TierCold
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
