package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/scriptmaze/internal/core"
)

// KeyMap defines the key bindings shown in the help bar.
type KeyMap struct {
	Focus   key.Binding
	Step    key.Binding
	Turn    key.Binding
	Toggle  key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// ShortHelp returns the bindings for the one-line help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Step, k.Turn, k.Toggle, k.Restart, k.Quit}
}

// FullHelp returns the bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Step, k.Turn},
		{k.Toggle, k.Restart, k.Quit},
	}
}

// DefaultKeyMap returns the standard console key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "console/play"),
		),
		Step: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "step"),
		),
		Turn: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "turn"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle"),
		),
		Restart: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a play-mode key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c":
		return core.ActionQuit, true
	case "up":
		return core.ActionStep, false
	case "left":
		return core.ActionLeft, false
	case "right":
		return core.ActionRight, false
	case "t":
		return core.ActionToggle, false
	case "ctrl+r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}
