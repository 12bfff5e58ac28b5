// Package core provides fundamental types and utilities for the maze platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Cell is an integer (x, y) coordinate in a level's 2D grid.
// X grows to the east (right), Y grows to the south (down), matching the
// row/column order of the character grids levels are parsed from.
type Cell struct {
	X, Y int
}

// C is a shorthand constructor for a Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Neighbor returns the adjacent cell one step in the given direction.
func (c Cell) Neighbor(d Direction) Cell {
	dx, dy := d.Delta()
	return c.Add(dx, dy)
}

// Direction is one of the four cardinal facings.
type Direction int

const (
	North Direction = iota // -Y
	East                   // +X
	South                  // +Y
	West                   // -X
)

// Delta returns the (dx, dy) grid offset for one step in this direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// TurnLeft returns the direction rotated 90° counterclockwise.
func (d Direction) TurnLeft() Direction {
	return (d + 3) % 4
}

// TurnRight returns the direction rotated 90° clockwise.
func (d Direction) TurnRight() Direction {
	return (d + 1) % 4
}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
