package levels

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
)

// GenOptions controls the procedural generator.
type GenOptions struct {
	Size        int     // square grid side, minimum 7
	Seed        int64   // same seed, same level
	LavaDensity float64 // chance of lava per open cell
	Keys        int
	Boxes       int
	TimeLimit   time.Duration
	ID          string // defaults to "gen-<seed>"
	Name        string // defaults to the ID
}

// DefaultGenOptions mirrors the classic 15x15 layout: pillar grid, ~15%
// lava, three keys and three boxes.
func DefaultGenOptions() GenOptions {
	return GenOptions{
		Size:        15,
		LavaDensity: 0.15,
		Keys:        3,
		Boxes:       3,
	}
}

// Preset returns generator options for a named difficulty.
func Preset(difficulty string) (GenOptions, bool) {
	opts := DefaultGenOptions()
	switch difficulty {
	case "easy":
		opts.Size = 11
		opts.LavaDensity = 0.08
		opts.Keys = 2
		opts.Boxes = 2
	case "normal":
	case "hard":
		opts.Size = 21
		opts.LavaDensity = 0.22
		opts.Keys = 4
		opts.Boxes = 4
		opts.TimeLimit = 180 * time.Second
	default:
		return GenOptions{}, false
	}
	return opts, true
}

// Generate builds a level: border walls, interior pillars on even
// coordinates, random lava, carved 3x3 rooms on a fixed stride, a lava-free
// route from the top-left spawn to the bottom-right exit, then keys and
// boxes scattered over open floor. Deterministic for a given options value.
func Generate(opts GenOptions) Level {
	size := opts.Size
	if size < 7 {
		size = 7
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	cells := make([][]byte, size)
	for y := range cells {
		cells[y] = make([]byte, size)
		for x := range cells[y] {
			switch {
			case x == 0 || x == size-1 || y == 0 || y == size-1:
				cells[y][x] = '#'
			case x%2 == 0 && y%2 == 0:
				cells[y][x] = '#'
			case rng.Float64() < opts.LavaDensity:
				cells[y][x] = 'L'
			default:
				cells[y][x] = '.'
			}
		}
	}

	// Carve open rooms so the pillar grid does not close everything off.
	for i := 3; i < size-3; i += 4 {
		for j := 3; j < size-3; j += 4 {
			for di := -1; di <= 1; di++ {
				for dj := -1; dj <= 1; dj++ {
					cells[i+di][j+dj] = '.'
				}
			}
		}
	}

	carveRoute(cells, rng)

	cells[1][1] = 'S'
	cells[size-2][size-2] = 'E'

	scatter := func(glyph byte, count, lo, hi, attempts int) {
		placed := 0
		for placed < count && attempts > 0 {
			x := lo + rng.Intn(hi-lo+1)
			y := lo + rng.Intn(hi-lo+1)
			if cells[y][x] == '.' {
				cells[y][x] = glyph
				placed++
			}
			attempts--
		}
	}
	scatter('K', opts.Keys, 2, size-3, 100)
	scatter('B', opts.Boxes, 3, size-4, 50)

	grid := make([]string, size)
	for y, row := range cells {
		grid[y] = string(row)
	}

	id := opts.ID
	if id == "" {
		id = fmt.Sprintf("gen-%d", opts.Seed)
	}
	name := opts.Name
	if name == "" {
		name = id
	}

	return Level{
		ID:        id,
		Name:      name,
		Grid:      grid,
		TimeLimit: opts.TimeLimit,
	}
}

// carveRoute walks from the spawn corner to the exit corner clearing lava as
// it goes, so the level stays winnable no matter how dense the lava rolled.
// The walk sticks to corridor cells (never an even-even pillar), never
// immediately reverses, and leans toward the exit; a step cap falls back to
// straight corridors on the rare wander that runs long.
func carveRoute(cells [][]byte, rng *rand.Rand) {
	size := len(cells)
	pos := core.C(1, 1)
	target := core.C(size-2, size-2)
	prev := core.South // its reverse points off-grid at the start

	dirs := []core.Direction{core.North, core.East, core.South, core.West}
	for steps := size * size * 8; pos != target && steps > 0; steps-- {
		clearLava(cells, pos)

		var options []core.Direction
		for _, d := range dirs {
			n := pos.Neighbor(d)
			if n.X < 1 || n.Y < 1 || n.X > size-2 || n.Y > size-2 {
				continue
			}
			if n.X%2 == 0 && n.Y%2 == 0 || d == prev.Opposite() {
				continue
			}
			options = append(options, d)
		}

		d := options[rng.Intn(len(options))]
		if rng.Float64() < 0.7 {
			if pos.X < target.X && slices.Contains(options, core.East) {
				d = core.East
			} else if pos.Y < target.Y && slices.Contains(options, core.South) {
				d = core.South
			}
		}
		prev = d
		pos = pos.Neighbor(d)
	}

	// Straight corridors the rest of the way. Stepping onto an odd row
	// first keeps the horizontal leg off the pillar lattice.
	if pos.Y%2 == 0 {
		clearLava(cells, pos)
		pos = pos.Add(0, 1)
	}
	for pos.X < target.X {
		clearLava(cells, pos)
		pos = pos.Add(1, 0)
	}
	for pos.Y < target.Y {
		clearLava(cells, pos)
		pos = pos.Add(0, 1)
	}
	clearLava(cells, pos)
}

func clearLava(cells [][]byte, at core.Cell) {
	if cells[at.Y][at.X] == 'L' {
		cells[at.Y][at.X] = '.'
	}
}
