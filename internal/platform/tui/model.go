package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scriptmaze/internal/channel"
	"github.com/vovakirdan/scriptmaze/internal/config"
	"github.com/vovakirdan/scriptmaze/internal/core"
	"github.com/vovakirdan/scriptmaze/internal/dispatch"
	"github.com/vovakirdan/scriptmaze/internal/game"
	"github.com/vovakirdan/scriptmaze/internal/script"
	"github.com/vovakirdan/scriptmaze/internal/session"
)

const (
	promptFresh    = ">>> "
	promptContinue = "... "
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// feed collects output produced off the update loop: console prints and
// evaluation results from the interpreter goroutine, plus completion lines
// the dispatcher emits while advancing animations. The model drains it once
// per tick.
type feed struct {
	mu    sync.Mutex
	lines []string
	evals int
}

func (f *feed) push(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, line)
}

func (f *feed) begin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals++
}

func (f *feed) finish(echo string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals--
	if err != nil {
		f.lines = append(f.lines, "error: "+err.Error())
	} else if echo != "" {
		f.lines = append(f.lines, echo)
	}
}

func (f *feed) drain() (lines []string, busy bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines = f.lines
	f.lines = nil
	return lines, f.evals > 0
}

// focus selects which pane receives keystrokes.
type focus uint8

const (
	focusConsole focus = iota // keys edit the script input
	focusPlay                 // arrows and t drive the player directly
)

// Model is the Bubble Tea model for the maze console.
type Model struct {
	ch     *channel.Channel
	disp   *dispatch.Dispatcher
	worker *script.Worker
	mgr    *session.Manager
	scene  *Scene
	screen *core.Screen
	feed   *feed

	input      textinput.Model
	transcript viewport.Model
	keys       KeyMap
	helpView   help.Model
	keymap     *KeyMapper

	lines      []string // transcript content
	buffer     []string // unfinished multi-line statement
	focus      focus
	tickRate   int
	width      int
	height     int
	firstLevel string
	started    bool
	evalBusy   bool
	quitting   bool
}

// Options wires one console session.
type Options struct {
	Config     config.Config
	Store      session.Store
	Logger     *log.Logger
	FirstLevel string // level to load on startup; empty starts bare
}

// NewSession builds a fully wired console: channel, interpreter worker,
// session manager and dispatcher. The returned cleanup releases them in an
// order that cannot strand the interpreter mid-wait.
func NewSession(opts Options) (Model, func(), error) {
	cfg := opts.Config

	ch, err := channel.New(cfg.Channel.CapacityCells)
	if err != nil {
		return Model{}, nil, err
	}

	f := &feed{}
	scene := NewScene()
	mgr := session.NewManager(session.Config{
		Store:    opts.Store,
		Renderer: scene,
		Timings:  timingsFrom(cfg),
	})
	disp := dispatch.New(dispatch.Config{
		Channel:  ch,
		Sessions: mgr,
		Logger:   opts.Logger,
		Notify:   f.push,
	})

	worker, err := script.NewWorker(script.Config{
		Channel:      ch,
		Logger:       opts.Logger,
		Print:        f.push,
		AwaitTimeout: time.Duration(cfg.Channel.AwaitTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		ch.Close()
		return Model{}, nil, err
	}
	worker.MarkReady()

	cleanup := func() {
		// Closing the channel first unblocks a primitive stuck waiting on
		// a result the UI will never publish.
		ch.Close()
		worker.Close()
		mgr.CloseCurrent()
	}

	ti := textinput.New()
	ti.Prompt = promptFresh
	ti.Placeholder = "help()"
	ti.Focus()

	m := Model{
		ch:         ch,
		disp:       disp,
		worker:     worker,
		mgr:        mgr,
		scene:      scene,
		screen:     core.NewScreen(1, 1),
		feed:       f,
		input:      ti,
		transcript: viewport.New(80, 10),
		keys:       DefaultKeyMap(),
		helpView:   help.New(),
		keymap:     NewKeyMapper(),
		tickRate:   cfg.Game.TickRateHz,
		firstLevel: opts.FirstLevel,
	}
	m.pushLine("scriptmaze console. type help() for commands, tab to drive by hand.")
	return m, cleanup, nil
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

// Init starts the tick loop and the input caret.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(m.tickRate))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		if m.focus == focusConsole {
			m.focus = focusPlay
			m.input.Blur()
		} else {
			m.focus = focusConsole
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusPlay {
		return m.handlePlayKey(msg)
	}
	return m.handleConsoleKey(msg)
}

// handlePlayKey maps a key to a game command and issues it on the keyboard
// path. Commands that finish later report through the dispatcher's notify
// sink, which lands in the transcript like any script output.
func (m Model) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, _ := m.keymap.MapKey(msg)
	method := action.Method()
	if method == "" {
		return m, nil
	}
	m.runCommand(method, nil, time.Now())
	return m, nil
}

// handleConsoleKey edits the script input line.
func (m Model) handleConsoleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submitLine()
		return m, nil
	case "esc":
		if len(m.buffer) > 0 {
			m.buffer = nil
			m.pushLine("(cancelled)")
			m.input.SetValue("")
			m.input.Prompt = promptFresh
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitLine appends the input line to the statement buffer and either keeps
// buffering or hands the statement to the interpreter. An empty line forces
// submission, so a typo can't wedge the prompt.
func (m *Model) submitLine() {
	line := m.input.Value()
	m.pushLine(m.input.Prompt + line)
	m.input.SetValue("")

	m.buffer = append(m.buffer, line)
	src := strings.Join(m.buffer, "\n")
	if strings.TrimSpace(src) == "" {
		m.buffer = nil
		m.input.Prompt = promptFresh
		return
	}
	if needsMore(src) && line != "" {
		m.input.Prompt = promptContinue
		return
	}

	m.buffer = nil
	m.input.Prompt = promptFresh
	m.feed.begin()
	if err := m.worker.Eval(src, m.feed.finish); err != nil {
		m.feed.finish("", err)
	}
}

// runCommand issues one command on the keyboard path and prints anything
// that finishes immediately.
func (m *Model) runCommand(method string, args []any, now time.Time) {
	result, done := m.disp.Do(method, args, now)
	if !done || result == "" {
		return
	}
	if result == channel.LevelLoaded {
		result = "level loaded"
	}
	m.pushLine(result)
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.helpView.Width = msg.Width
	m.input.Width = msg.Width - len(promptFresh) - 1
	m.layout()
	return m, nil
}

// handleTick drives everything that moves: pending script requests, running
// animations, and output produced since the last frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.started {
		m.started = true
		if m.firstLevel != "" {
			m.runCommand("level", []any{m.firstLevel}, now)
		}
	}

drain:
	for {
		select {
		case req := <-m.ch.Requests():
			m.disp.HandleRequest(req, now)
		default:
			break drain
		}
	}

	m.disp.Advance(now)

	lines, busy := m.feed.drain()
	for _, l := range lines {
		m.pushLine(l)
	}
	m.evalBusy = busy

	m.layout()
	return m, tickCmd(m.tickRate)
}

// layout gives the maze its natural height and the transcript the rest.
func (m *Model) layout() {
	mazeH := 3
	if s := m.mgr.Current(); s != nil && s.Ready() {
		mazeH = len(s.Level.Grid)
	}
	th := m.height - mazeH - 5 // title, hud, input, help, spacing
	if th < 3 {
		th = 3
	}
	if m.width > 0 {
		m.transcript.Width = m.width
	}
	m.transcript.Height = th
	m.refreshTranscript()
}

// pushLine appends one transcript line and keeps the view pinned to the end.
func (m *Model) pushLine(line string) {
	m.lines = append(m.lines, line)
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	m.transcript.SetContent(strings.Join(m.lines, "\n"))
	m.transcript.GotoBottom()
}

// hud summarizes the run state in one line.
func (m Model) hud() string {
	s := m.mgr.Current()
	if s == nil || !s.Ready() {
		return hudStyle.Render(`no level loaded. try level("01-first-steps")`)
	}

	snap := s.Game.Snapshot(time.Now())
	parts := []string{
		s.Level.Name,
		fmt.Sprintf("steps %d", snap.Steps),
		fmt.Sprintf("keys %d", snap.HeldKeys),
	}
	if snap.TimeLeftSecs >= 0 {
		parts = append(parts, fmt.Sprintf("time %.0fs", snap.TimeLeftSecs))
	}
	line := hudStyle.Render(strings.Join(parts, "  "))

	status := ""
	switch {
	case snap.Outcome == "won":
		status = "you won!"
	case snap.Outcome == "dead":
		status = "you died"
	case snap.Outcome == "time_up":
		status = "out of time"
	case m.evalBusy:
		status = "script running"
	case snap.Moving:
		status = "moving"
	case m.focus == focusPlay:
		status = "driving by hand"
	}
	if status != "" {
		line += "  " + statusStyle.Render(status)
	}
	return line
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	maze := `no level loaded`
	if s := m.mgr.Current(); s != nil && s.Ready() {
		now := time.Now()
		snap := s.Game.Snapshot(now)
		m.screen.Resize(snap.Width, snap.Height)
		m.scene.Draw(m.screen, snap, now)
		maze = RenderScreen(m.screen)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("scriptmaze"),
		maze,
		m.hud(),
		m.transcript.View(),
		m.input.View(),
		m.helpView.View(m.keys),
	)
}

// needsMore reports whether src reads as an unfinished statement: an open
// bracket, string or template literal, a trailing colon (a ternary split
// across lines), or an indented last line mid-block. A blank line always
// submits, so a stray trigger cannot wedge the prompt; the interpreter's
// syntax errors are the final word on anything it lets pass.
func needsMore(src string) bool {
	depth := 0
	var quote rune
	var prev rune
	esc := false
	comment := false

	for _, r := range src {
		switch {
		case comment:
			if r == '\n' {
				comment = false
			}
		case esc:
			esc = false
		case quote != 0:
			switch r {
			case '\\':
				esc = true
			case quote:
				quote = 0
			case '\n':
				// A plain string can't span lines; drop the state so a
				// stray quote can't wedge the prompt forever.
				if quote != '`' {
					quote = 0
				}
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '/' && prev == '/':
			comment = true
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
			if depth < 0 {
				return false
			}
		}
		prev = r
	}
	if depth > 0 || quote != 0 {
		return true
	}

	last := src
	if i := strings.LastIndexByte(src, '\n'); i >= 0 {
		last = src[i+1:]
	}
	if strings.HasSuffix(strings.TrimRight(last, " \t"), ":") {
		return true
	}
	return len(last) > 0 && (last[0] == ' ' || last[0] == '\t')
}

// Run starts a local console in the terminal.
func Run(opts Options) error {
	model, cleanup, err := NewSession(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse (for future use)
	)

	_, err = p.Run()
	return err
}
