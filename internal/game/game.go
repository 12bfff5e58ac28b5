// Package game implements the grid puzzle the console commands drive: a
// player walking a walled maze with keys, closed doors, pushable boxes,
// lava and floor buttons. The package is pure game logic plus one-way scene
// commands to a Renderer; it imports no terminal, storage or scripting code.
package game

import (
	"fmt"
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
)

// Result strings handed back to the caller. Gameplay rejections are plain
// strings, never errors; errors are reserved for construction faults.
const (
	msgCannotMove  = "cannot move there"
	msgDoorClosed  = "press toggle to open the door"
	msgBoxStuck    = "the box will not budge"
	msgBoxSinks    = "the box sinks into the lava"
	msgKeyPickup   = "picked up a key"
	msgLavaDeath   = "you fell in lava"
	msgWin         = "you made it! level complete"
	msgMoved       = "ok"
	msgStillMoving = "still moving"
	msgPlayerGone  = "the player is gone. use restart()"
	msgLevelDone   = "the level is complete. use restart() or level()"
	msgTimeUp      = "out of time. use restart()"
	msgOutOfTime   = "out of time"
	msgButtonDown  = "button pressed"
	msgButtonAgain = "already activated"
	msgDoorOpened  = "door opened"
	msgNeedKey     = "you need a key"
	msgNothingHere = "nothing to use here"
)

// Timings holds the animation durations of the four animated interactions.
// Zero durations make every command resolve synchronously, which is how
// tests run.
type Timings struct {
	Move    time.Duration // player step and box push
	Turn    time.Duration // 90° rotation
	BoxFall time.Duration // box sinking into lava
	Press   time.Duration // button press and door opening
}

// DefaultTimings returns the durations used in interactive play.
func DefaultTimings() Timings {
	return Timings{
		Move:    280 * time.Millisecond,
		Turn:    250 * time.Millisecond,
		BoxFall: 420 * time.Millisecond,
		Press:   150 * time.Millisecond,
	}
}

// Options configures a Game. The zero value is usable: no renderer, no
// animation delays, no time limit, clock starting at time.Now().
type Options struct {
	Renderer  Renderer
	Timings   Timings
	TimeLimit time.Duration // 0 means unlimited
	Now       time.Time     // session start; zero means time.Now()
}

// pendingOp is the one command currently animating. Its result string is
// fixed when the command begins; only delivery waits for the animation.
type pendingOp struct {
	result  string
	done    time.Time
	effects []func() // scene cleanup to run at completion
}

// Game is the authoritative state of one level run. It is not safe for
// concurrent use; the owning loop serializes all calls.
type Game struct {
	world    *World
	player   Player
	outcome  Outcome
	renderer Renderer
	timings  Timings

	startedAt time.Time
	deadline  time.Time // zero when unlimited
	steps     int

	pending *pendingOp
	events  []string

	playerHandle  EntityHandle
	boxHandles    map[core.Cell]EntityHandle
	keyHandles    map[core.Cell]EntityHandle
	lavaHandles   map[core.Cell]EntityHandle
	doorHandles   map[core.Cell]EntityHandle
	buttonHandles map[core.Cell]EntityHandle
}

// New builds a Game from a character grid and registers the level's scene
// with the renderer. A grid fault or a failed model load aborts construction
// and releases whatever scene was built so far.
func New(grid []string, opts Options) (*Game, error) {
	world, err := ParseGrid(grid)
	if err != nil {
		return nil, err
	}

	r := opts.Renderer
	if r == nil {
		r = &NopRenderer{}
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	g := &Game{
		world:         world,
		player:        Player{Cell: world.Spawn, Facing: core.East},
		renderer:      r,
		timings:       opts.Timings,
		startedAt:     now,
		boxHandles:    make(map[core.Cell]EntityHandle),
		keyHandles:    make(map[core.Cell]EntityHandle),
		lavaHandles:   make(map[core.Cell]EntityHandle),
		doorHandles:   make(map[core.Cell]EntityHandle),
		buttonHandles: make(map[core.Cell]EntityHandle),
	}
	if opts.TimeLimit > 0 {
		g.deadline = now.Add(opts.TimeLimit)
	}

	if err := g.buildScene(); err != nil {
		r.DisposeSession()
		return nil, err
	}
	return g, nil
}

// buildScene loads and places one entity per non-floor cell, the exit, and
// finally the player.
func (g *Game) buildScene() error {
	place := func(path string, at core.Cell, handles map[core.Cell]EntityHandle) error {
		h, err := g.renderer.LoadModel(path)
		if err != nil {
			return fmt.Errorf("game: load %s: %w", path, err)
		}
		g.renderer.PlaceEntity(h, at)
		if handles != nil {
			handles[at] = h
		}
		return nil
	}

	for _, c := range g.world.Walls() {
		if err := place(ModelWall, c, nil); err != nil {
			return err
		}
	}
	for _, c := range g.world.Doors() {
		if err := place(ModelDoor, c, g.doorHandles); err != nil {
			return err
		}
	}
	for _, c := range g.world.Boxes() {
		if err := place(ModelBox, c, g.boxHandles); err != nil {
			return err
		}
	}
	for _, c := range g.world.Keys() {
		if err := place(ModelKey, c, g.keyHandles); err != nil {
			return err
		}
	}
	for _, c := range g.world.Lava() {
		if err := place(ModelLava, c, g.lavaHandles); err != nil {
			return err
		}
	}
	for c := range g.world.Buttons() {
		if err := place(ModelButton, c, g.buttonHandles); err != nil {
			return err
		}
	}
	if err := place(ModelExit, g.world.Exit, nil); err != nil {
		return err
	}

	h, err := g.renderer.LoadModel(ModelPlayer)
	if err != nil {
		return fmt.Errorf("game: load %s: %w", ModelPlayer, err)
	}
	g.playerHandle = h
	g.renderer.PlaceEntity(h, g.player.Cell)
	return nil
}

// gate applies the checks shared by every command: one command at a time,
// and no commands once the run has ended.
func (g *Game) gate(now time.Time) (string, bool) {
	if g.pending != nil {
		return msgStillMoving, true
	}
	g.checkDeadline(now)
	switch g.outcome {
	case OutcomeDead:
		return msgPlayerGone, true
	case OutcomeWon:
		return msgLevelDone, true
	case OutcomeTimeUp:
		return msgTimeUp, true
	}
	return "", false
}

func (g *Game) checkDeadline(now time.Time) {
	if g.outcome == OutcomePlaying && !g.deadline.IsZero() && now.After(g.deadline) {
		g.outcome = OutcomeTimeUp
		g.events = append(g.events, msgOutOfTime)
	}
}

// begin fixes a command's result and either delivers it immediately (zero
// duration) or holds it until the animation deadline passes.
func (g *Game) begin(now time.Time, result string, d time.Duration, effects ...func()) (string, bool) {
	if d <= 0 {
		for _, fx := range effects {
			fx()
		}
		return result, true
	}
	g.pending = &pendingOp{result: result, done: now.Add(d), effects: effects}
	return "", false
}

// Step attempts to move the player one cell in its facing direction. The
// returned bool reports whether the result is final; a false means the
// command is animating and the result will come from Advance.
func (g *Game) Step(now time.Time) (string, bool) {
	if msg, blocked := g.gate(now); blocked {
		return msg, true
	}

	from := g.player.Cell
	dest := from.Neighbor(g.player.Facing)
	if !g.world.InBounds(dest) {
		return msgCannotMove, true
	}
	if g.world.DoorClosed(dest) {
		return msgDoorClosed, true
	}

	result := msgMoved
	d := g.timings.Move
	var effects []func()

	if g.world.BoxAt(dest) {
		beyond := dest.Neighbor(g.player.Facing)
		if !g.world.InBounds(beyond) || g.world.Blocked(beyond) {
			return msgBoxStuck, true
		}
		box := g.boxHandles[dest]
		delete(g.boxHandles, dest)
		if g.world.LavaAt(beyond) {
			g.world.SinkBox(dest, beyond)
			g.renderer.Animate(box, dest, beyond, g.timings.BoxFall)
			lava := g.lavaHandles[beyond]
			delete(g.lavaHandles, beyond)
			effects = append(effects, func() {
				g.renderer.RemoveEntity(box)
				g.renderer.RemoveEntity(lava)
			})
			result = msgBoxSinks
			if g.timings.BoxFall > d {
				d = g.timings.BoxFall
			}
		} else {
			g.world.MoveBox(dest, beyond)
			g.boxHandles[beyond] = box
			g.renderer.Animate(box, dest, beyond, g.timings.Move)
		}
	}
	if g.world.Blocked(dest) {
		return msgCannotMove, true
	}

	g.player.Cell = dest
	g.steps++
	g.renderer.Animate(g.playerHandle, from, dest, g.timings.Move)

	// Landing checks. Reaching the exit ends the run before key or lava
	// rules apply; otherwise a pickup still happens on a lava cell, and the
	// death message wins.
	if dest == g.world.Exit {
		g.outcome = OutcomeWon
		result = msgWin
	} else {
		if g.world.KeyAt(dest) {
			g.world.TakeKey(dest)
			g.player.Keys++
			key := g.keyHandles[dest]
			delete(g.keyHandles, dest)
			effects = append(effects, func() { g.renderer.RemoveEntity(key) })
			result = msgKeyPickup
		}
		if g.world.LavaAt(dest) {
			g.outcome = OutcomeDead
			hero := g.playerHandle
			effects = append(effects, func() { g.renderer.RemoveEntity(hero) })
			result = msgLavaDeath
		}
	}
	return g.begin(now, result, d, effects...)
}

// TurnLeft rotates the player 90° counterclockwise. A turn that is not
// blocked always succeeds silently: the empty result reaches script callers
// as null.
func (g *Game) TurnLeft(now time.Time) (string, bool) {
	if msg, blocked := g.gate(now); blocked {
		return msg, true
	}
	g.player.Facing = g.player.Facing.TurnLeft()
	return g.begin(now, "", g.timings.Turn)
}

// TurnRight rotates the player 90° clockwise, silently like TurnLeft.
func (g *Game) TurnRight(now time.Time) (string, bool) {
	if msg, blocked := g.gate(now); blocked {
		return msg, true
	}
	g.player.Facing = g.player.Facing.TurnRight()
	return g.begin(now, "", g.timings.Turn)
}

// Toggle activates whatever the player can act on: a button under the
// player (which demands the matching facing) wins over a door directly
// ahead (which costs a key).
func (g *Game) Toggle(now time.Time) (string, bool) {
	if msg, blocked := g.gate(now); blocked {
		return msg, true
	}

	if btn := g.world.ButtonAt(g.player.Cell); btn != nil {
		if btn.Toggled {
			return msgButtonAgain, true
		}
		if g.player.Facing != btn.Requires {
			return fmt.Sprintf("face %s to press the button", btn.Requires), true
		}
		btn.Toggled = true
		at := g.player.Cell
		old := g.buttonHandles[at]
		return g.begin(now, msgButtonDown, g.timings.Press, func() {
			g.renderer.RemoveEntity(old)
			if h, err := g.renderer.LoadModel(ModelButtonPressed); err == nil {
				g.renderer.PlaceEntity(h, at)
				g.buttonHandles[at] = h
			}
		})
	}

	ahead := g.player.Cell.Neighbor(g.player.Facing)
	if g.world.DoorClosed(ahead) {
		if g.player.Keys == 0 {
			return msgNeedKey, true
		}
		g.player.Keys--
		g.world.OpenDoor(ahead)
		door := g.doorHandles[ahead]
		delete(g.doorHandles, ahead)
		return g.begin(now, msgDoorOpened, g.timings.Press, func() {
			g.renderer.RemoveEntity(door)
		})
	}

	return msgNothingHere, true
}

// Advance progresses the in-flight command, if any. It returns the
// command's result and true on the call where its animation completes.
func (g *Game) Advance(now time.Time) (string, bool) {
	if g.pending != nil && !now.Before(g.pending.done) {
		op := g.pending
		g.pending = nil
		for _, fx := range op.effects {
			fx()
		}
		g.checkDeadline(now)
		return op.result, true
	}
	g.checkDeadline(now)
	return "", false
}

// Busy reports whether a command is still animating.
func (g *Game) Busy() bool {
	return g.pending != nil
}

// Outcome reports how the run stands.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Steps returns the number of completed moves this run.
func (g *Game) Steps() int {
	return g.steps
}

// StartedAt returns the session start time.
func (g *Game) StartedAt() time.Time {
	return g.startedAt
}

// Events drains queued notices that happened outside any command, such as
// the time limit expiring.
func (g *Game) Events() []string {
	ev := g.events
	g.events = nil
	return ev
}

// Dispose releases the session's scene. Safe to call once per session;
// further gameplay calls are rejected by outcome gates only, so callers
// drop the Game after disposing it.
func (g *Game) Dispose() {
	g.renderer.DisposeSession()
}
