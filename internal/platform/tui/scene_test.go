package tui

import (
	"testing"
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
	"github.com/vovakirdan/scriptmaze/internal/game"
)

func TestSceneHandsOutDistinctHandles(t *testing.T) {
	s := NewScene()

	a, err := s.LoadModel(game.ModelWall)
	if err != nil {
		t.Fatalf("LoadModel() failed: %v", err)
	}
	b, err := s.LoadModel(game.ModelBox)
	if err != nil {
		t.Fatalf("LoadModel() failed: %v", err)
	}
	if a == b {
		t.Errorf("Expected distinct handles, got %v twice", a)
	}

	s.RemoveEntity(a)
	if _, ok := s.entities[a]; ok {
		t.Error("Expected entity gone after RemoveEntity")
	}
	if _, ok := s.entities[b]; !ok {
		t.Error("Expected other entity untouched")
	}

	s.DisposeSession()
	if len(s.entities) != 0 {
		t.Errorf("Expected empty scene after dispose, got %d entities", len(s.entities))
	}
}

func TestSceneInterpolatesAnimations(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewScene()
	s.now = func() time.Time { return t0 }

	player, _ := s.LoadModel(game.ModelPlayer)
	box, _ := s.LoadModel(game.ModelBox)

	s.Animate(player, core.Cell{X: 0, Y: 0}, core.Cell{X: 4, Y: 0}, time.Second)
	s.Animate(box, core.Cell{X: 0, Y: 2}, core.Cell{X: 4, Y: 2}, time.Second)

	// Halfway: the player eases out (ahead of linear), the box eases in
	// (behind it).
	half := t0.Add(500 * time.Millisecond)
	if x, y := s.position(s.entities[player], half); x != 3 || y != 0 {
		t.Errorf("Expected player at (3,0) halfway, got (%d,%d)", x, y)
	}
	if x, y := s.position(s.entities[box], half); x != 1 || y != 2 {
		t.Errorf("Expected box at (1,2) halfway, got (%d,%d)", x, y)
	}

	// Complete: both rest on the destination and stop moving.
	end := t0.Add(time.Second)
	if x, _ := s.position(s.entities[player], end); x != 4 {
		t.Errorf("Expected player at destination, got x=%d", x)
	}
	if s.entities[player].moving {
		t.Error("Expected animation finished")
	}
}

func TestScenePlaceCancelsAnimation(t *testing.T) {
	s := NewScene()

	h, _ := s.LoadModel(game.ModelKey)
	s.Animate(h, core.Cell{X: 0, Y: 0}, core.Cell{X: 5, Y: 5}, time.Second)
	s.PlaceEntity(h, core.Cell{X: 2, Y: 2})

	if s.entities[h].moving {
		t.Error("Expected placement to cancel the animation")
	}
	if x, y := s.position(s.entities[h], time.Now()); x != 2 || y != 2 {
		t.Errorf("Expected (2,2), got (%d,%d)", x, y)
	}
}

func TestSceneZeroDurationLandsImmediately(t *testing.T) {
	s := NewScene()

	h, _ := s.LoadModel(game.ModelPlayer)
	s.Animate(h, core.Cell{X: 1, Y: 1}, core.Cell{X: 2, Y: 1}, 0)

	if s.entities[h].moving {
		t.Error("Expected zero-duration animation to complete at once")
	}
	if x, y := s.position(s.entities[h], time.Now()); x != 2 || y != 1 {
		t.Errorf("Expected (2,1), got (%d,%d)", x, y)
	}
}

func TestDrawLayersEntitiesAndSnapshotState(t *testing.T) {
	s := NewScene()
	scr := core.NewScreen(5, 3)

	player, _ := s.LoadModel(game.ModelPlayer)
	box, _ := s.LoadModel(game.ModelBox)
	lava, _ := s.LoadModel(game.ModelLava)

	s.PlaceEntity(player, core.Cell{X: 0, Y: 0})
	s.PlaceEntity(box, core.Cell{X: 2, Y: 1})
	// Box over lava: the box must paint on top.
	s.PlaceEntity(lava, core.Cell{X: 2, Y: 1})

	snap := game.Snapshot{
		Width:  5,
		Height: 3,
		Facing: "south",
		Buttons: []game.ButtonState{
			{X: 4, Y: 2, Requires: "north", Toggled: false},
			{X: 4, Y: 0, Requires: "west", Toggled: true},
		},
	}
	s.Draw(scr, snap, time.Now())

	if got := scr.Get(0, 0); got != 'v' {
		t.Errorf("Expected player glyph 'v' at (0,0), got %q", got)
	}
	if got := scr.Get(2, 1); got != glyphBox {
		t.Errorf("Expected box above lava at (2,1), got %q", got)
	}
	if got := scr.Get(4, 2); got != '^' {
		t.Errorf("Expected button arrow '^' at (4,2), got %q", got)
	}
	if got := scr.Get(4, 0); got != glyphButtonDown {
		t.Errorf("Expected pressed button at (4,0), got %q", got)
	}
	if got := scr.Get(1, 2); got != glyphFloor {
		t.Errorf("Expected floor at (1,2), got %q", got)
	}
}
