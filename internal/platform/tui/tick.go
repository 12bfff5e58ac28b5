// Package tui provides the Bubble Tea integration for the maze console.
// It handles the terminal UI loop, the script prompt, and the keyboard
// play path, all pumped by one tick loop.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a frame: requests drain, animations advance,
// and interpreter output lands in the transcript.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
