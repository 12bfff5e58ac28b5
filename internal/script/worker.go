// Package script hosts the sandboxed JavaScript interpreter on its own
// event loop goroutine and exposes the bridge primitives scripts drive the
// game with. The interpreter never touches game state; every primitive
// round-trips a request through the shared mailbox and blocks the loop
// goroutine until the main loop publishes the result, so a script cannot
// issue a second command before the first returns.
package script

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"

	"github.com/vovakirdan/scriptmaze/internal/channel"
)

const msgNotReady = "not ready yet"

const msgLevelLoaded = "level loaded"

const helpText = `commands:
  step()       move one cell in the direction you face
  left()       turn left
  right()      turn right
  toggle()     press the button you stand on, or unlock the door ahead
  level(name)  load a level; level("$") reloads the last one
  restart()    reload the current level
  help()       this summary`

// Config wires a Worker.
type Config struct {
	Channel *channel.Channel
	Logger  *log.Logger
	// Print receives console output and bridge diagnostics, one line per
	// call. Nil drops them.
	Print func(line string)
	// AwaitTimeout bounds each primitive's wait for a result. Zero selects
	// the channel default.
	AwaitTimeout time.Duration
}

// Worker owns the interpreter. All JavaScript runs on the event loop
// goroutine; the rest of the program talks to it through Eval and the
// shared mailbox.
type Worker struct {
	ch      *channel.Channel
	loop    *eventloop.EventLoop
	logger  *log.Logger
	print   func(string)
	timeout time.Duration

	ready    atomic.Bool
	closeOne sync.Once
}

// sinkPrinter feeds console.log and friends into the transcript.
type sinkPrinter struct {
	print func(string)
}

func (p sinkPrinter) Log(s string) { p.print(s) }

func (p sinkPrinter) Warn(s string) { p.print(s) }

func (p sinkPrinter) Error(s string) { p.print(s) }

// NewWorker starts the event loop and installs the bridge primitives.
// The worker comes up not ready; primitives refuse to send until MarkReady.
func NewWorker(cfg Config) (*Worker, error) {
	if cfg.Channel == nil {
		return nil, errors.New("script: channel required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	print := cfg.Print
	if print == nil {
		print = func(string) {}
	}

	w := &Worker{
		ch:      cfg.Channel,
		logger:  logger,
		print:   print,
		timeout: cfg.AwaitTimeout,
	}

	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(sinkPrinter{print: print}))
	w.loop = eventloop.NewEventLoop(
		eventloop.WithRegistry(registry),
		eventloop.EnableConsole(true),
	)
	w.loop.Start()

	errCh := make(chan error, 1)
	if !w.loop.RunOnLoop(func(vm *goja.Runtime) {
		errCh <- w.install(vm)
	}) {
		w.loop.Stop()
		return nil, errors.New("script: event loop not running")
	}
	if err := <-errCh; err != nil {
		w.loop.Stop()
		return nil, fmt.Errorf("script: install primitives: %w", err)
	}
	return w, nil
}

// MarkReady opens the bridge. Call it once the main loop is consuming
// requests; before that, primitives print a diagnostic and return null.
func (w *Worker) MarkReady() {
	w.ready.Store(true)
}

// Close stops the event loop. Safe to call multiple times. Close the
// mailbox first so a primitive blocked on a result unblocks instead of
// holding the loop open.
func (w *Worker) Close() {
	w.closeOne.Do(func() {
		w.ready.Store(false)
		w.loop.Stop()
	})
}

// Eval schedules one script block. done runs on the loop goroutine once
// the block finishes: err carries a thrown JavaScript error, echo the
// final value's text with undefined and null suppressed.
func (w *Worker) Eval(source string, done func(echo string, err error)) error {
	ok := w.loop.RunOnLoop(func(vm *goja.Runtime) {
		v, err := vm.RunString(source)
		if err != nil {
			done("", err)
			return
		}
		echo := ""
		if v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
			echo = v.String()
		}
		done(echo, nil)
	})
	if !ok {
		return errors.New("script: interpreter stopped")
	}
	return nil
}

func (w *Worker) install(vm *goja.Runtime) error {
	for _, name := range []string{"step", "left", "right", "toggle", "restart"} {
		if err := vm.Set(name, func() goja.Value {
			return w.invoke(vm, name, nil)
		}); err != nil {
			return err
		}
	}
	if err := vm.Set("level", func(name goja.Value) goja.Value {
		var args []any
		if name != nil && !goja.IsUndefined(name) {
			args = append(args, name.Export())
		}
		return w.invoke(vm, "level", args)
	}); err != nil {
		return err
	}
	return vm.Set("help", func() string { return helpText })
}

// invoke is the synchronous round trip every primitive shares: arm the
// flag, send the request, block for the result. Faults come back as the
// call's result string so script code always gets a return value.
func (w *Worker) invoke(vm *goja.Runtime, method string, args []any) goja.Value {
	if !w.ready.Load() {
		w.print(msgNotReady)
		return goja.Null()
	}

	w.ch.Arm()
	if err := w.ch.Send(channel.Request{Method: method, Args: args}); err != nil {
		w.logger.Error("send request", "method", method, "err", err)
		return vm.ToValue(err.Error())
	}
	res, err := w.ch.AwaitResult(w.timeout)
	if err != nil {
		w.logger.Error("await result", "method", method, "err", err)
		return vm.ToValue(err.Error())
	}
	if s, ok := res.(string); ok && s == channel.LevelLoaded {
		return vm.ToValue(msgLevelLoaded)
	}
	if res == nil {
		return goja.Null()
	}
	return vm.ToValue(res)
}
