// Package grid holds the board coordinate type shared by the seed deriver,
// the hint engine, and the session engine.
package grid

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Coord is a single cell on a square board. 0 ≤ Row, Col < size.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// In reports whether c lies on a size×size board.
func (c Coord) In(size int) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < size && c.Col < size
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Random returns a uniformly random cell on a size×size board.
// Used for endless-mode targets.
func Random(size int) Coord {
	if size <= 0 {
		return Coord{}
	}
	return Coord{Row: randIntn(size), Col: randIntn(size)}
}

func randIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
