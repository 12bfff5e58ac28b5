package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/scriptmaze/internal/core"
	"github.com/vovakirdan/scriptmaze/internal/game"
	"github.com/vovakirdan/scriptmaze/internal/platform/web"
)

// WatchState represents where the watcher is in its connection flow.
type WatchState int

const (
	WatchStateConnecting WatchState = iota
	WatchStateStreaming
	WatchStateLost
)

// Messages delivered from the feed reader goroutine.
type (
	watchConnectedMsg struct{ conn *websocket.Conn }
	watchLevelMsg     web.LevelInfo
	watchSnapshotMsg  game.Snapshot
	watchLineMsg      string
	watchLostMsg      struct{ err error }
)

// transcriptTail is how many feed lines the watcher keeps on screen.
const transcriptTail = 6

// WatchModel renders a remote session's feed, read-only.
type WatchModel struct {
	url    string
	state  WatchState
	conn   *websocket.Conn
	events chan tea.Msg
	done   chan struct{}
	screen *core.Screen

	level    web.LevelInfo
	snap     game.Snapshot
	hasSnap  bool
	lines    []string
	lostErr  string
	width    int
	quitting bool
}

// NewWatchModel creates a watcher for the feed at url.
func NewWatchModel(url string) WatchModel {
	return WatchModel{
		url:    url,
		state:  WatchStateConnecting,
		events: make(chan tea.Msg, 16),
		done:   make(chan struct{}),
		screen: core.NewScreen(1, 1),
	}
}

// Init dials the feed and starts listening.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.connect(), m.waitForEvent())
}

// connect dials the feed and spawns the reader goroutine.
func (m WatchModel) connect() tea.Cmd {
	url, events, done := m.url, m.events, m.done
	return func() tea.Msg {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return watchLostMsg{err: err}
		}

		go readFeed(conn, events, done)
		return watchConnectedMsg{conn: conn}
	}
}

// readFeed decodes envelopes into messages until the connection drops or
// the watcher quits.
func readFeed(conn *websocket.Conn, events chan<- tea.Msg, done <-chan struct{}) {
	deliver := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-done:
			return false
		}
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			deliver(watchLostMsg{err: err})
			return
		}

		var env web.ClientEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}

		var msg tea.Msg
		switch env.Type {
		case web.TypeLevel:
			var info web.LevelInfo
			if json.Unmarshal(env.Payload, &info) != nil {
				continue
			}
			msg = watchLevelMsg(info)
		case web.TypeSnapshot:
			var snap game.Snapshot
			if json.Unmarshal(env.Payload, &snap) != nil {
				continue
			}
			msg = watchSnapshotMsg(snap)
		case web.TypeLine:
			var line string
			if json.Unmarshal(env.Payload, &line) != nil {
				continue
			}
			msg = watchLineMsg(line)
		default:
			continue
		}

		if !deliver(msg) {
			return
		}
	}
}

// waitForEvent returns a command that waits for reader messages.
func (m WatchModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			close(m.done)
			if m.conn != nil {
				m.conn.Close()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case watchConnectedMsg:
		m.conn = msg.conn
		m.state = WatchStateStreaming
		return m, nil

	case watchLevelMsg:
		m.level = web.LevelInfo(msg)
		m.hasSnap = false
		return m, m.waitForEvent()

	case watchSnapshotMsg:
		m.snap = game.Snapshot(msg)
		m.hasSnap = true
		return m, m.waitForEvent()

	case watchLineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > transcriptTail {
			m.lines = m.lines[len(m.lines)-transcriptTail:]
		}
		return m, m.waitForEvent()

	case watchLostMsg:
		m.state = WatchStateLost
		if msg.err != nil {
			m.lostErr = msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// View renders the watched session.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	switch m.state {
	case WatchStateConnecting:
		b.WriteString(titleStyle.Render("scriptmaze watch"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("connecting to %s...", m.url))

	case WatchStateLost:
		b.WriteString(titleStyle.Render("scriptmaze watch"))
		b.WriteString("\n\n")
		b.WriteString("feed lost")
		if m.lostErr != "" {
			b.WriteString(": " + m.lostErr)
		}

	case WatchStateStreaming:
		title := "scriptmaze watch"
		if m.level.Name != "" {
			title = fmt.Sprintf("watching %s", m.level.Name)
		}
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")

		if m.hasSnap {
			m.screen.Resize(m.snap.Width, m.snap.Height)
			drawSnapshot(m.screen, m.snap)
			b.WriteString(RenderScreen(m.screen))
			b.WriteString("\n")

			status := []string{
				fmt.Sprintf("steps %d", m.snap.Steps),
				fmt.Sprintf("keys %d", m.snap.HeldKeys),
			}
			if m.snap.TimeLeftSecs >= 0 {
				status = append(status, fmt.Sprintf("time %.0fs", m.snap.TimeLeftSecs))
			}
			if m.snap.Outcome != "playing" {
				status = append(status, m.snap.Outcome)
			}
			b.WriteString(hudStyle.Render(strings.Join(status, "  ")))
		} else {
			b.WriteString("waiting for the first snapshot...")
		}

		for _, line := range m.lines {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(hudStyle.Render("q: quit"))
	return b.String()
}

// RunWatch connects to a feed and renders it until the user quits or the
// stream ends.
func RunWatch(url string) error {
	model := NewWatchModel(url)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
