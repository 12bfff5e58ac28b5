// Package session owns the single live level session and the switching
// rules between levels: name resolution (including the "$" shorthand for
// the last played level), persistence of that name, and the guarantee that
// one session's scene is released before the next one is built.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/scriptmaze/internal/game"
	"github.com/vovakirdan/scriptmaze/internal/levels"
)

// LastLevelKey is the "$" shorthand scripts use for the persisted level.
const LastLevelKey = "$"

// Rejections surfaced to the console verbatim, so their text is the
// user-facing message.
var (
	ErrNoLevelSelected = errors.New("select a level first")
	ErrUnknownLevel    = errors.New("unknown level")
)

// Store persists state that outlives a session.
type Store interface {
	LastLevel() (string, error)
	SetLastLevel(name string) error
	RecordRun(levelID, outcome string, steps int, d time.Duration) error
}

// State tracks a session through its life.
type State uint8

const (
	StateLoading State = iota
	StateReady
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Session is one loaded level's live state.
type Session struct {
	Level levels.Level
	Game  *game.Game
	state State
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Ready reports whether the session accepts commands.
func (s *Session) Ready() bool {
	return s != nil && s.state == StateReady
}

// Config wires a Manager.
type Config struct {
	Store    Store
	Renderer game.Renderer
	Timings  game.Timings
	Now      func() time.Time // defaults to time.Now
}

// Manager holds at most one live session and performs level switches.
type Manager struct {
	store    Store
	renderer game.Renderer
	timings  game.Timings
	now      func() time.Time
	current  *Session
}

// NewManager creates a session manager. Store is required; a nil Renderer
// means no scene is drawn.
func NewManager(cfg Config) *Manager {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:    cfg.Store,
		renderer: cfg.Renderer,
		timings:  cfg.Timings,
		now:      now,
	}
}

// Current returns the live session, or nil.
func (m *Manager) Current() *Session {
	return m.current
}

// SwitchTo resolves a level name, persists it, retires the current session
// and builds a fresh one. The name "$" (or an empty name) means the last
// persisted level. Rejections come back as ErrNoLevelSelected or
// ErrUnknownLevel with the current session untouched; construction faults
// come back wrapped after the old session is already gone.
func (m *Manager) SwitchTo(name string) (*Session, error) {
	if name == "" {
		name = LastLevelKey
	}
	if name == LastLevelKey {
		last, err := m.store.LastLevel()
		if err != nil {
			return nil, fmt.Errorf("session: read last level: %w", err)
		}
		if last == "" {
			return nil, ErrNoLevelSelected
		}
		name = last
	}

	lvl, ok := levels.Get(name)
	if !ok {
		return nil, ErrUnknownLevel
	}

	if err := m.store.SetLastLevel(name); err != nil {
		return nil, fmt.Errorf("session: persist level name: %w", err)
	}

	// The old scene must be gone before the new one starts loading.
	m.CloseCurrent()

	s := &Session{Level: lvl, state: StateLoading}
	g, err := game.New(lvl.Grid, game.Options{
		Renderer:  m.renderer,
		Timings:   m.timings,
		TimeLimit: lvl.TimeLimit,
		Now:       m.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("session: build level %s: %w", name, err)
	}
	s.Game = g
	s.state = StateReady
	m.current = s
	return s, nil
}

// Restart rebuilds the persisted level. Equivalent to SwitchTo("$").
func (m *Manager) Restart() (*Session, error) {
	return m.SwitchTo(LastLevelKey)
}

// CloseCurrent retires the live session: the run lands in history and the
// scene is released. Idempotent.
func (m *Manager) CloseCurrent() {
	s := m.current
	if s == nil || s.state == StateDisposed {
		return
	}

	outcome := s.Game.Outcome().String()
	if s.Game.Outcome() == game.OutcomePlaying {
		outcome = "abandoned"
	}
	// History is best-effort; a write failure must not block the switch.
	_ = m.store.RecordRun(s.Level.ID, outcome, s.Game.Steps(), m.now().Sub(s.Game.StartedAt()))

	s.Game.Dispose()
	s.state = StateDisposed
	m.current = nil
}
