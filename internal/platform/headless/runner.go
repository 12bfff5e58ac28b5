// Package headless runs a script against the game loop without a terminal.
// A time.Ticker stands in for the TUI's frame tick: each tick drains pending
// script requests, advances animations, and flushes transcript lines to a
// writer and, when wired, to the observer feed.
package headless

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scriptmaze/internal/channel"
	"github.com/vovakirdan/scriptmaze/internal/config"
	"github.com/vovakirdan/scriptmaze/internal/dispatch"
	"github.com/vovakirdan/scriptmaze/internal/game"
	"github.com/vovakirdan/scriptmaze/internal/platform/web"
	"github.com/vovakirdan/scriptmaze/internal/script"
	"github.com/vovakirdan/scriptmaze/internal/session"
)

// Options wires one headless run.
type Options struct {
	Config config.Config
	Store  session.Store
	Logger *log.Logger
	Source string    // the script to execute
	Level  string    // level to load before the script runs; empty skips
	Out    io.Writer // transcript destination; nil discards it
	Feed   *web.Feed // optional observer broadcast
}

// sink collects lines produced on the interpreter goroutine until the tick
// loop flushes them.
type sink struct {
	mu    sync.Mutex
	lines []string
}

func (s *sink) push(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *sink) drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.lines
	s.lines = nil
	return lines
}

// Run executes one script against a fresh session stack and blocks until it
// finishes. The returned error is the script's thrown error, if any; level
// load failures come back before the script starts.
func Run(opts Options) error {
	cfg := opts.Config
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ch, err := channel.New(cfg.Channel.CapacityCells)
	if err != nil {
		return err
	}

	snk := &sink{}
	mgr := session.NewManager(session.Config{
		Store:   opts.Store,
		Timings: timingsFrom(cfg),
	})
	disp := dispatch.New(dispatch.Config{
		Channel:  ch,
		Sessions: mgr,
		Logger:   logger,
		Notify:   snk.push,
	})

	worker, err := script.NewWorker(script.Config{
		Channel:      ch,
		Logger:       logger,
		Print:        snk.push,
		AwaitTimeout: time.Duration(cfg.Channel.AwaitTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		ch.Close()
		return err
	}
	worker.MarkReady()

	defer func() {
		ch.Close()
		worker.Close()
		mgr.CloseCurrent()
	}()

	if opts.Level != "" {
		result, _ := disp.Do("level", []any{opts.Level}, time.Now())
		if result != channel.LevelLoaded {
			return fmt.Errorf("headless: load level %s: %s", opts.Level, result)
		}
		snk.push("level loaded")
		if opts.Feed != nil {
			if s := mgr.Current(); s != nil {
				opts.Feed.AnnounceLevel(s.Level.ID, s.Level.Name)
			}
		}
	}

	evalDone := make(chan error, 1)
	if err := worker.Eval(opts.Source, func(echo string, evalErr error) {
		if evalErr == nil && echo != "" {
			snk.push(echo)
		}
		evalDone <- evalErr
	}); err != nil {
		return err
	}

	hz := cfg.Game.TickRateHz
	if hz <= 0 {
		hz = 30 // time.NewTicker panics on a non-positive interval
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	flush := func(now time.Time) {
		for _, line := range snk.drain() {
			fmt.Fprintln(out, line)
			if opts.Feed != nil {
				opts.Feed.PublishLine(line)
			}
		}
		if opts.Feed != nil {
			if s := mgr.Current(); s.Ready() {
				opts.Feed.PublishSnapshot(s.Game.Snapshot(now))
			}
		}
	}

	for {
		select {
		case now := <-ticker.C:
			for pending := true; pending; {
				select {
				case req := <-ch.Requests():
					disp.HandleRequest(req, now)
				default:
					pending = false
				}
			}
			disp.Advance(now)
			flush(now)

		case evalErr := <-evalDone:
			// The script has returned, so no command is in flight; one
			// last flush delivers whatever it printed on the way out.
			now := time.Now()
			disp.Advance(now)
			flush(now)
			if s := mgr.Current(); s.Ready() {
				snap := s.Game.Snapshot(now)
				fmt.Fprintf(out, "finished: %s after %d steps\n", snap.Outcome, snap.Steps)
			}
			return evalErr
		}
	}
}

// timingsFrom converts configured millisecond values to game timings.
func timingsFrom(cfg config.Config) game.Timings {
	a := cfg.Game.Animations
	return game.Timings{
		Move:    time.Duration(a.MoveMs) * time.Millisecond,
		Turn:    time.Duration(a.TurnMs) * time.Millisecond,
		BoxFall: time.Duration(a.BoxFallMs) * time.Millisecond,
		Press:   time.Duration(a.PressMs) * time.Millisecond,
	}
}
