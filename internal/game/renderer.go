package game

import (
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
)

// EntityHandle identifies one visual entity owned by a Renderer.
type EntityHandle int

// Model paths the controller asks the renderer to load. A renderer maps
// each path to whatever it can draw (the terminal renderer maps them to
// glyphs and styles).
const (
	ModelPlayer        = "models/player"
	ModelWall          = "models/wall"
	ModelDoor          = "models/door"
	ModelBox           = "models/box"
	ModelKey           = "models/key"
	ModelLava          = "models/lava"
	ModelExit          = "models/exit"
	ModelButton        = "models/button"
	ModelButtonPressed = "models/button_pressed"
)

// Renderer is the presentation collaborator the controller drives. The
// controller only issues scene commands; it never reads anything back, so
// gameplay stays independent of how (or whether) the scene is drawn.
//
// LoadModel may fail, and a failure during level construction aborts the
// session. After construction the controller treats render calls as
// best-effort.
type Renderer interface {
	LoadModel(path string) (EntityHandle, error)
	PlaceEntity(h EntityHandle, at core.Cell)
	Animate(h EntityHandle, from, to core.Cell, d time.Duration)
	RemoveEntity(h EntityHandle)
	DisposeSession()
}

// NopRenderer discards every scene command. Used by tests and by the
// headless runner when no observer is attached.
type NopRenderer struct {
	next EntityHandle
}

func (r *NopRenderer) LoadModel(string) (EntityHandle, error) {
	r.next++
	return r.next, nil
}

func (r *NopRenderer) PlaceEntity(EntityHandle, core.Cell) {}

func (r *NopRenderer) Animate(EntityHandle, core.Cell, core.Cell, time.Duration) {}

func (r *NopRenderer) RemoveEntity(EntityHandle) {}

func (r *NopRenderer) DisposeSession() {}
