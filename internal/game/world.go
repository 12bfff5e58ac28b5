package game

import (
	"fmt"

	"github.com/vovakirdan/scriptmaze/internal/core"
)

// Button is a floor plate the player can activate with toggle while standing
// on it and facing the required direction.
type Button struct {
	Requires core.Direction
	Toggled  bool
}

// World holds one level's grid state: static walls plus the mutable entity
// collections the command handlers work against. Built once per level load
// from a character grid; mutated as the player interacts. A cell is blocked
// by at most one obstacle at a time for movement purposes, though doors,
// boxes and lava live in separate collections.
type World struct {
	Width  int
	Height int
	Spawn  core.Cell
	Exit   core.Cell

	walls   map[core.Cell]bool
	blocked map[core.Cell]bool // walls + closed doors + boxes
	doors   map[core.Cell]bool // closed doors only
	boxes   map[core.Cell]bool
	keys    map[core.Cell]bool
	lava    map[core.Cell]bool
	buttons map[core.Cell]*Button
}

// Grid characters:
//
//	#  wall          .  or space  floor
//	S  spawn         E  exit
//	D  closed door   K  key
//	B  box           L  lava
//	^ v < >          button requiring that facing
const (
	charWall  = '#'
	charFloor = '.'
	charSpawn = 'S'
	charExit  = 'E'
	charDoor  = 'D'
	charKey   = 'K'
	charBox   = 'B'
	charLava  = 'L'
)

// ParseGrid builds a World from a character grid. Missing spawn or exit is
// an initialization fault: level construction fails rather than producing a
// half-usable world.
func ParseGrid(rows []string) (*World, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("game: empty level grid")
	}

	w := &World{
		Height:  len(rows),
		walls:   make(map[core.Cell]bool),
		blocked: make(map[core.Cell]bool),
		doors:   make(map[core.Cell]bool),
		boxes:   make(map[core.Cell]bool),
		keys:    make(map[core.Cell]bool),
		lava:    make(map[core.Cell]bool),
		buttons: make(map[core.Cell]*Button),
	}

	var hasSpawn, hasExit bool
	for y, row := range rows {
		if len(row) > w.Width {
			w.Width = len(row)
		}
		for x, ch := range row {
			cell := core.C(x, y)
			switch ch {
			case charWall:
				w.walls[cell] = true
				w.blocked[cell] = true
			case charFloor, ' ':
			case charSpawn:
				if hasSpawn {
					return nil, fmt.Errorf("game: duplicate spawn cell at (%d, %d)", x, y)
				}
				w.Spawn = cell
				hasSpawn = true
			case charExit:
				if hasExit {
					return nil, fmt.Errorf("game: duplicate exit cell at (%d, %d)", x, y)
				}
				w.Exit = cell
				hasExit = true
			case charDoor:
				w.doors[cell] = true
				w.blocked[cell] = true
			case charKey:
				w.keys[cell] = true
			case charBox:
				w.boxes[cell] = true
				w.blocked[cell] = true
			case charLava:
				w.lava[cell] = true
			case '^':
				w.buttons[cell] = &Button{Requires: core.North}
			case 'v':
				w.buttons[cell] = &Button{Requires: core.South}
			case '<':
				w.buttons[cell] = &Button{Requires: core.West}
			case '>':
				w.buttons[cell] = &Button{Requires: core.East}
			default:
				return nil, fmt.Errorf("game: unknown grid character %q at (%d, %d)", ch, x, y)
			}
		}
	}

	if !hasSpawn {
		return nil, fmt.Errorf("game: level grid has no spawn cell")
	}
	if !hasExit {
		return nil, fmt.Errorf("game: level grid has no exit cell")
	}
	return w, nil
}

// InBounds reports whether the cell lies inside the grid rectangle.
func (w *World) InBounds(c core.Cell) bool {
	return c.X >= 0 && c.X < w.Width && c.Y >= 0 && c.Y < w.Height
}

// Blocked reports whether movement may not enter the cell.
func (w *World) Blocked(c core.Cell) bool {
	return w.blocked[c]
}

// Wall reports whether the cell is a static wall.
func (w *World) Wall(c core.Cell) bool {
	return w.walls[c]
}

// DoorClosed reports whether the cell holds a closed door.
func (w *World) DoorClosed(c core.Cell) bool {
	return w.doors[c]
}

// OpenDoor removes a closed door, unblocking its cell.
func (w *World) OpenDoor(c core.Cell) {
	delete(w.doors, c)
	delete(w.blocked, c)
}

// BoxAt reports whether the cell holds a box.
func (w *World) BoxAt(c core.Cell) bool {
	return w.boxes[c]
}

// MoveBox relocates a box one push target over, keeping the blocked set in
// step with the box collection.
func (w *World) MoveBox(from, to core.Cell) {
	delete(w.boxes, from)
	delete(w.blocked, from)
	w.boxes[to] = true
	w.blocked[to] = true
}

// SinkBox consumes a box pushed into lava: the box disappears and the lava
// cell it fell into is neutralized. Neither cell ends up blocked.
func (w *World) SinkBox(box, lavaCell core.Cell) {
	delete(w.boxes, box)
	delete(w.blocked, box)
	delete(w.lava, lavaCell)
}

// KeyAt reports whether the cell holds a key.
func (w *World) KeyAt(c core.Cell) bool {
	return w.keys[c]
}

// TakeKey removes a key from the cell.
func (w *World) TakeKey(c core.Cell) {
	delete(w.keys, c)
}

// LavaAt reports whether the cell is lava.
func (w *World) LavaAt(c core.Cell) bool {
	return w.lava[c]
}

// ButtonAt returns the button on the cell, or nil.
func (w *World) ButtonAt(c core.Cell) *Button {
	return w.buttons[c]
}

// Walls returns every wall cell. Order is unspecified.
func (w *World) Walls() []core.Cell {
	return cellSet(w.walls)
}

// Doors returns every closed door cell. Order is unspecified.
func (w *World) Doors() []core.Cell {
	return cellSet(w.doors)
}

// Boxes returns every box cell. Order is unspecified.
func (w *World) Boxes() []core.Cell {
	return cellSet(w.boxes)
}

// Keys returns every key cell. Order is unspecified.
func (w *World) Keys() []core.Cell {
	return cellSet(w.keys)
}

// Lava returns every lava cell. Order is unspecified.
func (w *World) Lava() []core.Cell {
	return cellSet(w.lava)
}

// Buttons returns the button map keyed by cell. Callers must not mutate it.
func (w *World) Buttons() map[core.Cell]*Button {
	return w.buttons
}

func cellSet(m map[core.Cell]bool) []core.Cell {
	cells := make([]core.Cell, 0, len(m))
	for c := range m {
		cells = append(cells, c)
	}
	return cells
}
