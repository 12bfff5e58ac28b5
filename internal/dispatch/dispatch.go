// Package dispatch routes command requests from the script worker and the
// keyboard to the live game session, and guarantees that every request gets
// exactly one result back, even when the command finishes on a later tick or
// the handler fails outright.
package dispatch

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scriptmaze/internal/channel"
	"github.com/vovakirdan/scriptmaze/internal/session"
)

// State is where the dispatcher sits in its request cycle.
type State uint8

const (
	// StateIdle means no request is being processed.
	StateIdle State = iota
	// StateDecoding means a request's method and args are being validated.
	StateDecoding
	// StateDispatching means a command handler is running or an animated
	// command is waiting for its animation to finish.
	StateDispatching
	// StatePublishing means a result is being written back to the mailbox.
	StatePublishing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDecoding:
		return "decoding"
	case StateDispatching:
		return "dispatching"
	case StatePublishing:
		return "publishing"
	default:
		return "unknown"
	}
}

type origin uint8

const (
	originMailbox origin = iota
	originLocal
)

// inflight remembers whose animated command is still running so its result
// can be routed back when Advance completes it.
type inflight struct {
	origin origin
	method string
}

const (
	msgStillMoving   = "still moving"
	msgNoLevel       = "select a level first"
	msgProtocolFault = "protocol fault: a command is already in flight"
	msgBadLevelArg   = "level name must be a string"
)

// Config wires a Dispatcher.
type Config struct {
	Channel  *channel.Channel
	Sessions *session.Manager
	Logger   *log.Logger
	// Notify receives lines that have no request to answer: completions of
	// keyboard commands that outlast their keypress, and out-of-band game
	// events such as the timer expiring. Nil drops them.
	Notify func(line string)
}

// Dispatcher is the main loop's command router. Not safe for concurrent
// use; all methods run on the loop goroutine.
type Dispatcher struct {
	ch     *channel.Channel
	mgr    *session.Manager
	logger *log.Logger
	notify func(string)

	state    State
	inflight *inflight
}

// New creates a dispatcher. Sessions is required; Channel may be nil when
// only the keyboard path is in play.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	notify := cfg.Notify
	if notify == nil {
		notify = func(string) {}
	}
	return &Dispatcher{
		ch:     cfg.Channel,
		mgr:    cfg.Sessions,
		logger: logger,
		notify: notify,
	}
}

// State returns the dispatcher's current cycle state.
func (d *Dispatcher) State() State {
	return d.state
}

// Busy reports whether an animated command is still waiting for Advance to
// complete it.
func (d *Dispatcher) Busy() bool {
	return d.inflight != nil
}

// HandleRequest processes one worker request. The worker is blocked on the
// shared buffer until a result lands, so exactly one result is published per
// request, immediately for synchronous commands and from Advance for
// animated ones.
func (d *Dispatcher) HandleRequest(req channel.Request, now time.Time) {
	d.dispatch(originMailbox, req.Method, req.Args, now)
}

// Do runs a command from the keyboard through the same state machine. The
// result comes back to the caller instead of the mailbox; when the command
// animates, done is false and the eventual result goes to the notify sink.
func (d *Dispatcher) Do(method string, args []any, now time.Time) (result string, done bool) {
	return d.dispatch(originLocal, method, args, now)
}

func (d *Dispatcher) dispatch(from origin, method string, args []any, now time.Time) (result string, done bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "method", method, "panic", r)
			d.inflight = nil
			result, done = fmt.Sprintf("internal error: %v", r), true
			d.conclude(from, result)
		}
	}()

	if d.inflight != nil {
		if from == originMailbox && d.inflight.origin == originMailbox {
			// The worker blocks until each result lands, so a second
			// mailbox request here means the handshake broke down.
			d.logger.Error("overlapping request", "method", method, "inflight", d.inflight.method)
			d.conclude(from, msgProtocolFault)
			return msgProtocolFault, true
		}
		d.conclude(from, msgStillMoving)
		return msgStillMoving, true
	}

	d.state = StateDecoding
	if method == "restart" {
		method, args = "level", []any{session.LastLevelKey}
	}

	d.state = StateDispatching
	switch method {
	case "level":
		result, done = d.switchLevel(args), true
	case "step", "left", "right", "toggle":
		result, done = d.gameplay(method, now)
	default:
		d.logger.Warn("unknown command", "method", method)
		result, done = fmt.Sprintf("unknown command %q", method), true
	}

	if !done {
		d.inflight = &inflight{origin: from, method: method}
		return "", false
	}
	d.conclude(from, result)
	return result, true
}

func (d *Dispatcher) switchLevel(args []any) string {
	name := ""
	if len(args) > 0 {
		s, ok := args[0].(string)
		if !ok {
			return msgBadLevelArg
		}
		name = s
	}
	if _, err := d.mgr.SwitchTo(name); err != nil {
		return err.Error()
	}
	return channel.LevelLoaded
}

func (d *Dispatcher) gameplay(method string, now time.Time) (string, bool) {
	s := d.mgr.Current()
	if !s.Ready() {
		return msgNoLevel, true
	}
	switch method {
	case "step":
		return s.Game.Step(now)
	case "left":
		return s.Game.TurnLeft(now)
	case "right":
		return s.Game.TurnRight(now)
	default:
		return s.Game.Toggle(now)
	}
}

// conclude routes a finished result to whoever asked for it. Mailbox
// requests get a published result; keyboard requests that already returned
// synchronously need nothing more, and animated ones go to the notify sink
// from Advance.
func (d *Dispatcher) conclude(from origin, result string) {
	d.state = StatePublishing
	if from == originMailbox && d.ch != nil {
		// Silent successes (turns, for one) publish null, not "".
		var payload any
		if result != "" {
			payload = result
		}
		if err := d.ch.PublishResult(payload); err != nil {
			d.logger.Error("publish result", "err", err)
		}
	}
	d.state = StateIdle
}

// Advance ticks the live session's animation. When the in-flight command
// completes, its result is published to the mailbox or sent to the notify
// sink depending on where it came from. Out-of-band game events always go
// to the sink.
func (d *Dispatcher) Advance(now time.Time) {
	s := d.mgr.Current()
	if !s.Ready() {
		return
	}
	result, completed := s.Game.Advance(now)
	if completed && d.inflight != nil {
		from := d.inflight.origin
		d.inflight = nil
		if from == originLocal && result != "" {
			d.notify(result)
		}
		d.conclude(from, result)
	}
	for _, ev := range s.Game.Events() {
		d.notify(ev)
	}
}
