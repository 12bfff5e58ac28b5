package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMenuViewFramesLevels(t *testing.T) {
	m := NewMenuModel(nil)
	m.width = 72

	out := m.View()
	if !strings.Contains(out, "S C R I P T M A Z E") {
		t.Error("Title missing from the picker")
	}
	if !strings.Contains(out, "┌") || !strings.Contains(out, "┘") || !strings.Contains(out, "│") {
		t.Error("Level list is not framed")
	}
	if !strings.Contains(out, "> First Steps") {
		t.Errorf("Cursor not on the first level:\n%s", out)
	}
	if !strings.Contains(out, "The Gauntlet (timed)") {
		t.Errorf("Timed level not tagged:\n%s", out)
	}
	if !strings.Contains(out, "Enter: Select") {
		t.Error("Key hints missing")
	}
}

func TestMenuCursorMovesWithKeys(t *testing.T) {
	m := NewMenuModel(nil)
	m.width = 72

	moved, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	out := moved.View()
	if !strings.Contains(out, "> Turning Point") {
		t.Errorf("Cursor did not move to the second level:\n%s", out)
	}
	if strings.Contains(out, "> First Steps") {
		t.Error("Cursor marker left on the first level")
	}
}
