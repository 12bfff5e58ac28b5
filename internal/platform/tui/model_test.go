package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/scriptmaze/internal/config"
)

type memStore struct {
	last string
	runs int
}

func (m *memStore) LastLevel() (string, error)     { return m.last, nil }
func (m *memStore) SetLastLevel(name string) error { m.last = name; return nil }

func (m *memStore) RecordRun(levelID, outcome string, steps int, d time.Duration) error {
	m.runs++
	return nil
}

// newConsole wires a console against an in-memory store with instant
// animations, so commands finish on the tick they are issued.
func newConsole(t *testing.T, firstLevel string) Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Game.Animations = config.AnimationConfig{}

	m, cleanup, err := NewSession(Options{
		Config:     cfg,
		Store:      &memStore{},
		FirstLevel: firstLevel,
	})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	t.Cleanup(cleanup)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got
}

func pressEnter(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func transcriptHas(m Model, want string) bool {
	for _, l := range m.lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}

// tickUntil pumps ticks until the transcript contains want. Script results
// come back from the interpreter goroutine, so a little patience is needed.
func tickUntil(t *testing.T, m Model, want string) Model {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		m = update(t, m, TickMsg(time.Now()))
		if transcriptHas(m, want) {
			return m
		}
		if time.Now().After(deadline) {
			t.Fatalf("Transcript never contained %q: %v", want, m.lines)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNeedsMore(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"step()", false},
		{"if (true) {", true},
		{"f(", true},
		{"[1, 2, 3]", false},
		{"var s = 'abc", true},
		{"var s = 'abc\nstep()", false}, // broken string self-heals on the next line
		{"`template", true},
		{"`one\ntwo", true}, // template literals do span lines
		{"`one\ntwo`", false},
		{"'it\\'s fine'", false},
		{"// comment with ( and {", false},
		{"}", false}, // premature close submits and lets the parser complain
		{"while (a) { b(); }", false},
		{"var x = ready ? 1 :", true}, // ternary split across lines
		{"if (x) :", true},
		{"a ? b\n  : c", true}, // indented line keeps the block open
		{"if (x) {\n  step()\n}", false},
		{"\tstep()", true},
	}

	for _, c := range cases {
		if got := needsMore(c.src); got != c.want {
			t.Errorf("needsMore(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestConsoleBuffersUnbalancedStatement(t *testing.T) {
	m := newConsole(t, "")

	m = pressEnter(t, m, "if (true) {")
	if m.input.Prompt != promptContinue {
		t.Fatalf("Expected continuation prompt, got %q", m.input.Prompt)
	}
	if len(m.buffer) != 1 {
		t.Fatalf("Expected 1 buffered line, got %d", len(m.buffer))
	}
	if !transcriptHas(m, ">>> if (true) {") {
		t.Error("Expected the input echoed with its prompt")
	}

	m = pressEnter(t, m, "  console.log('hi');")
	if m.input.Prompt != promptContinue {
		t.Fatalf("Expected continuation to keep going, got %q", m.input.Prompt)
	}

	m = pressEnter(t, m, "}")
	if m.input.Prompt != promptFresh {
		t.Fatalf("Expected fresh prompt after submission, got %q", m.input.Prompt)
	}
	if len(m.buffer) != 0 {
		t.Errorf("Expected empty buffer after submission, got %v", m.buffer)
	}

	m = tickUntil(t, m, "hi")
	_ = m
}

func TestConsoleEscCancelsBufferedInput(t *testing.T) {
	m := newConsole(t, "")

	m = pressEnter(t, m, "f(")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if len(m.buffer) != 0 {
		t.Errorf("Expected buffer cleared, got %v", m.buffer)
	}
	if m.input.Prompt != promptFresh {
		t.Errorf("Expected fresh prompt, got %q", m.input.Prompt)
	}
	if !transcriptHas(m, "(cancelled)") {
		t.Error("Expected a cancellation note in the transcript")
	}
}

func TestConsoleEmptyLineForcesSubmission(t *testing.T) {
	m := newConsole(t, "")

	m = pressEnter(t, m, "f(")
	m = pressEnter(t, m, "")
	if len(m.buffer) != 0 {
		t.Fatalf("Expected forced submission, buffer still %v", m.buffer)
	}

	// The statement was incomplete; the interpreter reports it.
	m = tickUntil(t, m, "error:")
	_ = m
}

func TestTabSwitchesFocus(t *testing.T) {
	m := newConsole(t, "")

	if m.focus != focusConsole {
		t.Fatalf("Expected console focus initially, got %v", m.focus)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusPlay {
		t.Fatalf("Expected play focus after tab, got %v", m.focus)
	}
	if m.input.Focused() {
		t.Error("Expected input blurred in play mode")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusConsole {
		t.Fatalf("Expected console focus after second tab, got %v", m.focus)
	}
	if !m.input.Focused() {
		t.Error("Expected input focused again")
	}
}

func TestFirstLevelLoadsOnFirstTick(t *testing.T) {
	m := newConsole(t, "01-first-steps")

	m = update(t, m, TickMsg(time.Now()))
	if !transcriptHas(m, "level loaded") {
		t.Fatalf("Expected level loaded note, got %v", m.lines)
	}
	if s := m.mgr.Current(); s == nil || s.Level.ID != "01-first-steps" {
		t.Error("Expected 01-first-steps to be live")
	}
}

func TestPlayKeysDriveTheGame(t *testing.T) {
	m := newConsole(t, "01-first-steps")
	m = update(t, m, TickMsg(time.Now()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})

	if !transcriptHas(m, "ok") {
		t.Fatalf("Expected step result in transcript, got %v", m.lines)
	}
	if s := m.mgr.Current(); s.Game.Steps() != 1 {
		t.Errorf("Expected 1 step taken, got %d", s.Game.Steps())
	}
}

func TestPlayKeysNeedALevel(t *testing.T) {
	m := newConsole(t, "")
	m = update(t, m, TickMsg(time.Now()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})

	if !transcriptHas(m, "select a level first") {
		t.Fatalf("Expected rejection, got %v", m.lines)
	}
}

func TestScriptRoundTripThroughConsole(t *testing.T) {
	m := newConsole(t, "01-first-steps")
	m = update(t, m, TickMsg(time.Now()))

	m = pressEnter(t, m, "step()")
	m = tickUntil(t, m, "ok")

	if s := m.mgr.Current(); s.Game.Steps() != 1 {
		t.Errorf("Expected the scripted step to land, got %d steps", s.Game.Steps())
	}
}
