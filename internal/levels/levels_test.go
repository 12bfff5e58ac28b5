package levels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
	"github.com/vovakirdan/scriptmaze/internal/game"
)

func TestBuiltinLevelsAreValid(t *testing.T) {
	if len(builtin) == 0 {
		t.Fatal("No built-in levels")
	}
	seen := make(map[string]bool)
	for _, lvl := range builtin {
		if err := lvl.Validate(); err != nil {
			t.Errorf("Level %s does not parse: %v", lvl.ID, err)
		}
		if seen[lvl.ID] {
			t.Errorf("Duplicate level ID %s", lvl.ID)
		}
		seen[lvl.ID] = true
		if !Exists(lvl.ID) {
			t.Errorf("Level %s not registered at init", lvl.ID)
		}
	}
}

func TestListSortedByID(t *testing.T) {
	infos := List()
	for i := 1; i < len(infos); i++ {
		if infos[i-1].ID >= infos[i].ID {
			t.Fatalf("List not sorted: %s before %s", infos[i-1].ID, infos[i].ID)
		}
	}
	if _, ok := Get("01-first-steps"); !ok {
		t.Error("Expected the first campaign level to resolve")
	}
	if _, ok := Get("no-such-level"); ok {
		t.Error("Unknown ID must not resolve")
	}
}

// TestGauntletWalkthrough plays the final campaign level start to finish:
// key pickup, door, box pushed into lava, exit.
func TestGauntletWalkthrough(t *testing.T) {
	lvl, ok := Get("08-the-gauntlet")
	if !ok {
		t.Fatal("Gauntlet level missing")
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g, err := game.New(lvl.Grid, game.Options{Now: now, TimeLimit: lvl.TimeLimit})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	script := []struct {
		cmd  func(time.Time) (string, bool)
		want string
	}{
		{g.Step, "ok"},
		{g.Step, "picked up a key"},
		{g.Step, "ok"},
		{g.Toggle, "door opened"},
		{g.Step, "ok"},
		{g.Step, "ok"},
		{g.Step, "ok"},
		{g.Step, "ok"},
		{g.TurnRight, ""}, // silent turn, now facing south
		{g.Step, "ok"},
		{g.Step, "ok"},
		{g.TurnRight, ""}, // silent turn, now facing west
		{g.Step, "ok"},
		{g.Step, "ok"},
		{g.Step, "the box sinks into the lava"},
		{g.Step, "ok"},
		{g.Step, "ok"},
		{g.Step, "ok"},
		{g.Step, "you made it! level complete"},
	}
	for i, mv := range script {
		msg, done := mv.cmd(now)
		if !done {
			t.Fatalf("Move %d did not resolve synchronously", i)
		}
		if msg != mv.want {
			t.Fatalf("Move %d = %q, want %q", i, msg, mv.want)
		}
	}
	if g.Outcome() != game.OutcomeWon {
		t.Errorf("Outcome = %v, want OutcomeWon", g.Outcome())
	}
}

func TestLoadDirSkipsInvalid(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("b-second.yaml", strings.Join([]string{
		"id: zz-b-second",
		"name: Second",
		"grid:",
		`  - "####"`,
		`  - "#SE#"`,
		`  - "####"`,
	}, "\n"))
	write("a-first.yml", strings.Join([]string{
		"id: zz-a-first",
		"grid:",
		`  - "####"`,
		`  - "#SE#"`,
		`  - "####"`,
		"time_limit_secs: 30",
	}, "\n"))
	// No exit: must be skipped, not fatal.
	write("broken.yaml", strings.Join([]string{
		"id: zz-broken",
		"grid:",
		`  - "#S#"`,
	}, "\n"))
	write("notes.txt", "not a level")

	found, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("LoadDir found %d levels, want 2", len(found))
	}
	if found[0].ID != "zz-a-first" || found[1].ID != "zz-b-second" {
		t.Errorf("Order = [%s, %s], want sorted by ID", found[0].ID, found[1].ID)
	}
	if found[0].TimeLimit != 30*time.Second {
		t.Errorf("TimeLimit = %v, want 30s", found[0].TimeLimit)
	}
	if found[0].Name != "zz-a-first" {
		t.Errorf("Name = %q, want the ID as fallback", found[0].Name)
	}

	added, err := RegisterDir(dir)
	if err != nil {
		t.Fatalf("RegisterDir: %v", err)
	}
	if added != 2 {
		t.Errorf("RegisterDir added %d, want 2", added)
	}
	if !Exists("zz-a-first") {
		t.Error("Loaded level must be registered")
	}

	// Re-registering the same directory adds nothing.
	added, err = RegisterDir(dir)
	if err != nil {
		t.Fatalf("RegisterDir again: %v", err)
	}
	if added != 0 {
		t.Errorf("Second RegisterDir added %d, want 0", added)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	lvl := Generate(GenOptions{Size: 9, Seed: 7, LavaDensity: 0.1, Keys: 1, Boxes: 1, TimeLimit: time.Minute})

	data, err := EncodeYAML(lvl)
	if err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	back, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	if back.ID != lvl.ID || back.Name != lvl.Name || back.TimeLimit != lvl.TimeLimit {
		t.Errorf("Round trip changed metadata: %+v vs %+v", back, lvl)
	}
	if len(back.Grid) != len(lvl.Grid) {
		t.Fatalf("Grid height %d, want %d", len(back.Grid), len(lvl.Grid))
	}
	for i := range lvl.Grid {
		if back.Grid[i] != lvl.Grid[i] {
			t.Errorf("Grid row %d = %q, want %q", i, back.Grid[i], lvl.Grid[i])
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(GenOptions{Size: 15, Seed: 42, LavaDensity: 0.15, Keys: 3, Boxes: 3})
	b := Generate(GenOptions{Size: 15, Seed: 42, LavaDensity: 0.15, Keys: 3, Boxes: 3})
	for i := range a.Grid {
		if a.Grid[i] != b.Grid[i] {
			t.Fatalf("Same seed diverged at row %d: %q vs %q", i, a.Grid[i], b.Grid[i])
		}
	}

	c := Generate(GenOptions{Size: 15, Seed: 43, LavaDensity: 0.15, Keys: 3, Boxes: 3})
	same := true
	for i := range a.Grid {
		if a.Grid[i] != c.Grid[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds produced identical grids")
	}
}

func TestGenerateStructure(t *testing.T) {
	opts := DefaultGenOptions()
	opts.Seed = 99
	lvl := Generate(opts)

	if err := lvl.Validate(); err != nil {
		t.Fatalf("Generated level does not parse: %v", err)
	}
	if lvl.ID != "gen-99" {
		t.Errorf("ID = %q, want gen-99", lvl.ID)
	}

	size := opts.Size
	if lvl.Grid[1][1] != 'S' {
		t.Error("Spawn must sit at (1,1)")
	}
	if lvl.Grid[size-2][size-2] != 'E' {
		t.Error("Exit must sit in the bottom-right corner")
	}
	for i := 0; i < size; i++ {
		if lvl.Grid[0][i] != '#' || lvl.Grid[size-1][i] != '#' {
			t.Fatalf("Border row broken at column %d", i)
		}
		if lvl.Grid[i][0] != '#' || lvl.Grid[i][size-1] != '#' {
			t.Fatalf("Border column broken at row %d", i)
		}
	}

	// Past the carved-room band, the even-coordinate pillars survive.
	hard, _ := Preset("hard")
	hard.Seed = 99
	big := Generate(hard)
	if big.Grid[18][18] != '#' {
		t.Errorf("Pillar at (18,18) = %q, want '#'", big.Grid[18][18])
	}
}

func TestGenerateCarvesRouteThroughLava(t *testing.T) {
	for _, seed := range []int64{0, 1, 7, 99} {
		opts := DefaultGenOptions()
		opts.Seed = seed
		opts.LavaDensity = 0.5 // a hostile roll; the carved route must survive
		lvl := Generate(opts)

		if !routeExists(lvl.Grid) {
			t.Errorf("Seed %d: no wall- and lava-free route from spawn to exit", seed)
		}
	}
}

// routeExists floods from the spawn over cells that are neither wall nor
// lava and reports whether the exit is reachable.
func routeExists(grid []string) bool {
	var spawn, exit core.Cell
	for y, row := range grid {
		for x, c := range row {
			switch c {
			case 'S':
				spawn = core.C(x, y)
			case 'E':
				exit = core.C(x, y)
			}
		}
	}

	seen := map[core.Cell]bool{spawn: true}
	queue := []core.Cell{spawn}
	for len(queue) > 0 {
		at := queue[0]
		queue = queue[1:]
		if at == exit {
			return true
		}
		for d := core.North; d <= core.West; d++ {
			n := at.Neighbor(d)
			if n.Y < 0 || n.Y >= len(grid) || n.X < 0 || n.X >= len(grid[n.Y]) || seen[n] {
				continue
			}
			if c := grid[n.Y][n.X]; c == '#' || c == 'L' {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return false
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"easy", "normal", "hard"} {
		opts, ok := Preset(name)
		if !ok {
			t.Errorf("Preset(%q) missing", name)
			continue
		}
		if opts.Size < 7 {
			t.Errorf("Preset(%q) size %d too small", name, opts.Size)
		}
	}
	if _, ok := Preset("nightmare"); ok {
		t.Error("Unknown preset must not resolve")
	}
}
