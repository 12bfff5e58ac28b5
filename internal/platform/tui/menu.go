package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/scriptmaze/internal/core"
	"github.com/vovakirdan/scriptmaze/internal/levels"
	"github.com/vovakirdan/scriptmaze/internal/storage"
)

// MenuItem represents a selectable level in the picker.
type MenuItem struct {
	LevelID string
	Title   string
	Timed   bool
	Record  string // best winning run, empty when the level was never won
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	screen   *core.Screen
	quitting bool
	selected *MenuItem // Set when user picks a level
}

// NewMenuModel creates a picker over every registered level, annotated with
// the player's best runs when a store is available.
func NewMenuModel(store *storage.Store) MenuModel {
	infos := levels.List()
	items := make([]MenuItem, 0, len(infos))

	for _, info := range infos {
		item := MenuItem{
			LevelID: info.ID,
			Title:   info.Name,
			Timed:   info.Timed,
		}
		if store != nil {
			if best, err := store.BestRun(info.ID); err == nil && best != nil {
				item.Record = fmt.Sprintf("best %d steps", best.Steps)
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:  items,
		cursor: 0,
		screen: core.NewScreen(1, 1),
	}
}

// Init initializes the picker model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for picker navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "enter":
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit picker to start the console
		}
	}

	return m, nil
}

// View paints the picker into the screen buffer: the title, a box framing
// the level list, and the key hints underneath.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = 64 // first View can land before the initial resize
	}
	boxW := core.Clamp(m.widestRow()+6, 30, width)
	boxH := len(m.items) + 4

	m.screen.Resize(width, boxH+4)
	m.screen.Clear()

	m.screen.DrawTextCentered(0, "S C R I P T M A Z E")

	left := (width - boxW) / 2
	m.screen.DrawBox(left, 1, boxW, boxH)
	m.screen.DrawTextCentered(2, "Select a level")
	m.screen.DrawHLine(left+1, 3, boxW-2, '─')

	for i, item := range m.items {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		m.screen.DrawText(left+2, 4+i, marker+menuRow(item))
	}

	m.screen.DrawTextCentered(boxH+2, "Up/Down: Navigate  |  Enter: Select  |  Q: Quit")
	return m.screen.String()
}

// menuRow formats one selectable line.
func menuRow(item MenuItem) string {
	row := item.Title
	if item.Timed {
		row += " (timed)"
	}
	if item.Record != "" {
		row += "  " + item.Record
	}
	return row
}

func (m MenuModel) widestRow() int {
	w := 0
	for _, item := range m.items {
		if n := len(menuRow(item)); n > w {
			w = n
		}
	}
	return w
}

// Selected returns the picked level, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the picker.
type MenuResult struct {
	LevelID string
	Quit    bool
}

// RunMenu runs the level picker and returns the selection.
func RunMenu(store *storage.Store) (MenuResult, error) {
	model := NewMenuModel(store)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Quit: true}, nil
	}

	return MenuResult{LevelID: m.Selected().LevelID}, nil
}
