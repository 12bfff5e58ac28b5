package core

// Action represents a semantic game action, abstracted from physical key presses.
// The keyboard play path maps keys to actions; the platform translates actions
// into the same commands the script console issues.
type Action int

const (
	ActionNone     Action = iota
	ActionStep            // Up arrow - step one cell forward
	ActionLeft            // Left arrow - rotate 90° counterclockwise
	ActionRight           // Right arrow - rotate 90° clockwise
	ActionToggle          // T - use button underfoot or door ahead
	ActionRestart         // Ctrl+R - reload the current level
	ActionQuit            // Ctrl+C - exit session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionStep:
		return "Step"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionToggle:
		return "Toggle"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Method returns the command-surface method name for this action,
// or an empty string if the action does not map to a command.
func (a Action) Method() string {
	switch a {
	case ActionStep:
		return "step"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionToggle:
		return "toggle"
	case ActionRestart:
		return "restart"
	default:
		return ""
	}
}
