// Package levels holds the level catalog: built-in campaign levels, a YAML
// directory loader for user levels, a procedural generator, and the registry
// the session manager resolves names against.
package levels

import (
	"time"

	"github.com/vovakirdan/scriptmaze/internal/game"
)

// Level is one playable level definition. The grid uses the character set
// the game parser understands; ID is the name scripts pass to level().
type Level struct {
	ID        string
	Name      string
	Grid      []string
	TimeLimit time.Duration // 0 means untimed
}

// Validate reports whether the grid parses into a playable world.
func (l Level) Validate() error {
	_, err := game.ParseGrid(l.Grid)
	return err
}
