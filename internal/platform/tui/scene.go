package tui

import (
	"math"
	"sort"
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
	"github.com/vovakirdan/scriptmaze/internal/game"
)

// sceneEntity is one live entity in the terminal scene.
type sceneEntity struct {
	model  string
	cell   core.Cell
	placed bool

	// in-flight animation
	from, to core.Cell
	start    time.Time
	duration time.Duration
	moving   bool
}

// Scene is the terminal render collaborator. The game issues one-way scene
// commands (load, place, animate, remove); the scene keeps enough state to
// paint every entity at its interpolated position each frame. All methods
// run on the owning model's goroutine.
type Scene struct {
	next     game.EntityHandle
	entities map[game.EntityHandle]*sceneEntity
	now      func() time.Time
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		entities: make(map[game.EntityHandle]*sceneEntity),
		now:      time.Now,
	}
}

// LoadModel hands out a handle for one entity of the given model.
// Terminal models are glyphs, so loading cannot fail.
func (s *Scene) LoadModel(path string) (game.EntityHandle, error) {
	s.next++
	s.entities[s.next] = &sceneEntity{model: path}
	return s.next, nil
}

// PlaceEntity puts an entity on a cell, cancelling any animation.
func (s *Scene) PlaceEntity(h game.EntityHandle, at core.Cell) {
	e := s.entities[h]
	if e == nil {
		return
	}
	e.cell = at
	e.placed = true
	e.moving = false
}

// Animate slides an entity between cells. The entity's resting position is
// the destination; only painting lags behind.
func (s *Scene) Animate(h game.EntityHandle, from, to core.Cell, d time.Duration) {
	e := s.entities[h]
	if e == nil {
		return
	}
	e.from, e.to = from, to
	e.start = s.now()
	e.duration = d
	e.moving = d > 0
	e.cell = to
	e.placed = true
}

// RemoveEntity drops an entity from the scene.
func (s *Scene) RemoveEntity(h game.EntityHandle) {
	delete(s.entities, h)
}

// DisposeSession clears the scene ahead of the next level.
func (s *Scene) DisposeSession() {
	s.entities = make(map[game.EntityHandle]*sceneEntity)
}

// paintOrder layers ground models under the things that sit on them.
func paintOrder(model string) int {
	switch model {
	case game.ModelLava, game.ModelExit:
		return 0
	case game.ModelBox:
		return 2
	default:
		return 1
	}
}

// position returns the entity's cell for this frame, interpolating along
// an in-flight animation. Boxes accelerate (they are shoved, and they sink);
// everything else eases out.
func (s *Scene) position(e *sceneEntity, now time.Time) (int, int) {
	if !e.moving {
		return e.cell.X, e.cell.Y
	}
	t := game.Progress(e.start, now, e.duration)
	if t >= 1 {
		e.moving = false
		return e.cell.X, e.cell.Y
	}
	if e.model == game.ModelBox {
		t = game.EaseInQuad(t)
	} else {
		t = game.EaseOutQuad(t)
	}
	fx, fy := game.InterpolateCell(e.from, e.to, t)
	return int(math.Round(fx)), int(math.Round(fy))
}

// Draw paints the maze into the screen buffer. Entity positions come from
// the scene so animations play out; buttons come from the snapshot so their
// required facing shows as an arrow; the player's glyph comes from the
// snapshot facing while its position animates like any other entity.
func (s *Scene) Draw(scr *core.Screen, snap game.Snapshot, now time.Time) {
	scr.Clear()

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			scr.SetCell(x, y, glyphFloor, core.ColorGray)
		}
	}

	handles := make([]game.EntityHandle, 0, len(s.entities))
	for h, e := range s.entities {
		if !e.placed || e.model == game.ModelPlayer ||
			e.model == game.ModelButton || e.model == game.ModelButtonPressed {
			continue
		}
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		oi, oj := paintOrder(s.entities[handles[i]].model), paintOrder(s.entities[handles[j]].model)
		if oi != oj {
			return oi < oj
		}
		return handles[i] < handles[j]
	})
	for _, h := range handles {
		e := s.entities[h]
		x, y := s.position(e, now)
		r, c := modelGlyph(e.model)
		scr.SetCell(x, y, r, c)
	}

	for _, b := range snap.Buttons {
		if b.Toggled {
			scr.SetCell(b.X, b.Y, glyphButtonDown, core.ColorBrightGreen)
		} else {
			scr.SetCell(b.X, b.Y, facingGlyph(b.Requires), core.ColorBrightYellow)
		}
	}

	for _, e := range s.entities {
		if e.model != game.ModelPlayer || !e.placed {
			continue
		}
		x, y := s.position(e, now)
		scr.SetCell(x, y, facingGlyph(snap.Facing), core.ColorBrightWhite)
	}
}
