package game

import "github.com/vovakirdan/scriptmaze/internal/core"

// Player is the avatar the script commands steer.
type Player struct {
	Cell   core.Cell
	Facing core.Direction
	Keys   int
}

// Outcome classifies the run once it has ended. While the player is alive
// and the exit untouched the outcome stays OutcomePlaying.
type Outcome uint8

const (
	OutcomePlaying Outcome = iota
	OutcomeWon
	OutcomeDead
	OutcomeTimeUp
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaying:
		return "playing"
	case OutcomeWon:
		return "won"
	case OutcomeDead:
		return "dead"
	case OutcomeTimeUp:
		return "time_up"
	default:
		return "unknown"
	}
}
