package game

import (
	"sort"
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
)

// ButtonState is one floor button's observable state.
type ButtonState struct {
	X, Y     int
	Requires string
	Toggled  bool
}

// Snapshot captures the complete observable state of a run for rendering,
// the observer feed and tests. Entity slices are sorted row-major so equal
// states produce equal snapshots.
type Snapshot struct {
	Width  int
	Height int

	PlayerX  int
	PlayerY  int
	Facing   string
	HeldKeys int
	Steps    int
	Moving   bool
	Outcome  string

	ExitX int
	ExitY int

	Walls   []core.Cell
	Doors   []core.Cell
	Boxes   []core.Cell
	Keys    []core.Cell
	Lava    []core.Cell
	Buttons []ButtonState

	TimeLeftSecs float64 // -1 when the level has no time limit
}

// Snapshot returns the current run state.
func (g *Game) Snapshot(now time.Time) Snapshot {
	timeLeft := -1.0
	if !g.deadline.IsZero() {
		timeLeft = g.deadline.Sub(now).Seconds()
		if timeLeft < 0 {
			timeLeft = 0
		}
	}

	buttons := make([]ButtonState, 0, len(g.world.Buttons()))
	for c, b := range g.world.Buttons() {
		buttons = append(buttons, ButtonState{
			X:        c.X,
			Y:        c.Y,
			Requires: b.Requires.String(),
			Toggled:  b.Toggled,
		})
	}
	sort.Slice(buttons, func(i, j int) bool {
		if buttons[i].Y != buttons[j].Y {
			return buttons[i].Y < buttons[j].Y
		}
		return buttons[i].X < buttons[j].X
	})

	return Snapshot{
		Width:        g.world.Width,
		Height:       g.world.Height,
		PlayerX:      g.player.Cell.X,
		PlayerY:      g.player.Cell.Y,
		Facing:       g.player.Facing.String(),
		HeldKeys:     g.player.Keys,
		Steps:        g.steps,
		Moving:       g.pending != nil,
		Outcome:      g.outcome.String(),
		ExitX:        g.world.Exit.X,
		ExitY:        g.world.Exit.Y,
		Walls:        sortedCells(g.world.Walls()),
		Doors:        sortedCells(g.world.Doors()),
		Boxes:        sortedCells(g.world.Boxes()),
		Keys:         sortedCells(g.world.Keys()),
		Lava:         sortedCells(g.world.Lava()),
		Buttons:      buttons,
		TimeLeftSecs: timeLeft,
	}
}

func sortedCells(cells []core.Cell) []core.Cell {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}
