package game

import (
	"time"

	"github.com/vovakirdan/scriptmaze/internal/core"
)

// Progress maps elapsed wall time onto the 0.0 → 1.0 animation range.
// A non-positive duration is already complete.
func Progress(start, now time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return core.ClampF(float64(now.Sub(start))/float64(d), 0, 1)
}

// EaseOutQuad provides smooth deceleration for slide animations.
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// EaseInQuad provides acceleration, used for falling animations.
func EaseInQuad(t float64) float64 {
	return t * t
}

// InterpolateCell calculates the fractional grid position between two cells
// at progress t. Renderers round to whole cells as late as possible.
func InterpolateCell(from, to core.Cell, t float64) (x, y float64) {
	x = float64(from.X) + (float64(to.X)-float64(from.X))*t
	y = float64(from.Y) + (float64(to.Y)-float64(from.Y))*t
	return x, y
}
