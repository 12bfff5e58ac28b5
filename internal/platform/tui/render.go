package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/scriptmaze/internal/core"
	"github.com/vovakirdan/scriptmaze/internal/game"
)

// Maze glyphs. Buttons show as the arrow of the facing they demand until
// pressed; the player is the arrow of its own facing.
const (
	glyphFloor      = '.'
	glyphWall       = '#'
	glyphDoor       = 'D'
	glyphKey        = 'K'
	glyphBox        = 'B'
	glyphLava       = '~'
	glyphExit       = 'E'
	glyphButtonDown = '*'
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// modelGlyph returns the glyph and color for a scene model.
func modelGlyph(model string) (rune, core.Color) {
	switch model {
	case game.ModelWall:
		return glyphWall, core.ColorWhite
	case game.ModelDoor:
		return glyphDoor, core.ColorOrange
	case game.ModelKey:
		return glyphKey, core.ColorBrightYellow
	case game.ModelBox:
		return glyphBox, core.ColorCyan
	case game.ModelLava:
		return glyphLava, core.ColorBrightRed
	case game.ModelExit:
		return glyphExit, core.ColorBrightGreen
	default:
		return '?', core.ColorDefault
	}
}

// facingGlyph returns the arrow for a cardinal direction name.
func facingGlyph(facing string) rune {
	switch facing {
	case "north":
		return '^'
	case "east":
		return '>'
	case "south":
		return 'v'
	case "west":
		return '<'
	default:
		return '?'
	}
}

// drawSnapshot paints a maze state without a scene, straight from the
// snapshot. Watchers use this; they have no animation state to interpolate.
func drawSnapshot(scr *core.Screen, snap game.Snapshot) {
	scr.Clear()

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			scr.SetCell(x, y, glyphFloor, core.ColorGray)
		}
	}

	for _, c := range snap.Lava {
		scr.SetCell(c.X, c.Y, glyphLava, core.ColorBrightRed)
	}
	scr.SetCell(snap.ExitX, snap.ExitY, glyphExit, core.ColorBrightGreen)
	for _, c := range snap.Walls {
		scr.SetCell(c.X, c.Y, glyphWall, core.ColorWhite)
	}
	for _, c := range snap.Doors {
		scr.SetCell(c.X, c.Y, glyphDoor, core.ColorOrange)
	}
	for _, c := range snap.Keys {
		scr.SetCell(c.X, c.Y, glyphKey, core.ColorBrightYellow)
	}
	for _, b := range snap.Buttons {
		if b.Toggled {
			scr.SetCell(b.X, b.Y, glyphButtonDown, core.ColorBrightGreen)
		} else {
			scr.SetCell(b.X, b.Y, facingGlyph(b.Requires), core.ColorBrightYellow)
		}
	}
	for _, c := range snap.Boxes {
		scr.SetCell(c.X, c.Y, glyphBox, core.ColorCyan)
	}
	scr.SetCell(snap.PlayerX, snap.PlayerY, facingGlyph(snap.Facing), core.ColorBrightWhite)
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
