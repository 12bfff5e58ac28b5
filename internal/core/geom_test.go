package core

import "testing"

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		name   string
		dir    Direction
		dx, dy int
	}{
		{"north", North, 0, -1},
		{"east", East, 1, 0},
		{"south", South, 0, 1},
		{"west", West, -1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dx, dy := tc.dir.Delta()
			if dx != tc.dx || dy != tc.dy {
				t.Errorf("Delta() = (%d, %d), expected (%d, %d)", dx, dy, tc.dx, tc.dy)
			}
		})
	}
}

func TestDirectionTurns(t *testing.T) {
	tests := []struct {
		dir         Direction
		left, right Direction
	}{
		{North, West, East},
		{East, North, South},
		{South, East, West},
		{West, South, North},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			if got := tc.dir.TurnLeft(); got != tc.left {
				t.Errorf("TurnLeft() = %v, expected %v", got, tc.left)
			}
			if got := tc.dir.TurnRight(); got != tc.right {
				t.Errorf("TurnRight() = %v, expected %v", got, tc.right)
			}
		})
	}
}

func TestTurnRoundTrip(t *testing.T) {
	// Four turns in the same direction return to the start.
	for d := North; d <= West; d++ {
		if d.TurnLeft().TurnLeft().TurnLeft().TurnLeft() != d {
			t.Errorf("four left turns from %v should return to %v", d, d)
		}
		if d.TurnRight().TurnRight().TurnRight().TurnRight() != d {
			t.Errorf("four right turns from %v should return to %v", d, d)
		}
		if d.TurnLeft().TurnRight() != d {
			t.Errorf("left then right from %v should return to %v", d, d)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("double opposite from %v should return to %v", d, d)
		}
	}
}

func TestCellNeighbor(t *testing.T) {
	c := C(5, 5)

	tests := []struct {
		dir      Direction
		expected Cell
	}{
		{North, C(5, 4)},
		{East, C(6, 5)},
		{South, C(5, 6)},
		{West, C(4, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			if got := c.Neighbor(tc.dir); got != tc.expected {
				t.Errorf("Neighbor(%v) = %v, expected %v", tc.dir, got, tc.expected)
			}
		})
	}
}

func TestCellAdd(t *testing.T) {
	c := C(2, 3)
	if got := c.Add(1, -1); got != C(3, 2) {
		t.Errorf("Add(1, -1) = %v, expected (3, 2)", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(5, 10) != 5 {
		t.Error("Min(5, 10) should be 5")
	}
	if Min(10, 5) != 5 {
		t.Error("Min(10, 5) should be 5")
	}
	if Max(5, 10) != 10 {
		t.Error("Max(5, 10) should be 10")
	}
	if Max(10, 5) != 10 {
		t.Error("Max(10, 5) should be 10")
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
	if Abs(0) != 0 {
		t.Error("Abs(0) should be 0")
	}
}
