// Package share formats the text a player copies or shares after a game.
package share

import (
	"fmt"
	"strings"
)

// Text is the brag line for a streak, with an optional link back to the game.
func Text(streak int, url string) string {
	msg := fmt.Sprintf("I've got a %d-day defuse streak on Defuse! Can you top it? 🔥", max(streak, 0))
	if url = strings.TrimSpace(url); url != "" {
		msg += " " + url
	}
	return msg
}
