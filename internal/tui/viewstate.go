package tui

// Action is a view-state transition triggered by input.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionToggleHelp
	ActionEscape
	ActionScrollUp
	ActionScrollDown
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionTogglePause:
		return "pause"
	case ActionToggleHelp:
		return "help"
	case ActionEscape:
		return "escape"
	case ActionScrollUp:
		return "scroll_up"
	case ActionScrollDown:
		return "scroll_down"
	default:
		return "none"
	}
}

// ViewState is the dashboard's own state, separate from the agent's.
// ScrollOffset counts lines up from the bottom and is always 0 while running.
type ViewState struct {
	Paused       bool
	ScrollOffset int
	HelpOpen     bool
	ShouldQuit   bool
}

// Apply performs the transition for a. maxScroll bounds ScrollOffset.
func (v *ViewState) Apply(a Action, maxScroll int) {
	if maxScroll < 0 {
		maxScroll = 0
	}
	switch a {
	case ActionQuit:
		v.ShouldQuit = true
	case ActionTogglePause:
		v.Paused = !v.Paused
	case ActionToggleHelp:
		v.HelpOpen = !v.HelpOpen
	case ActionEscape:
		if v.HelpOpen {
			v.HelpOpen = false
		} else if v.Paused {
			v.Paused = false
		}
	case ActionScrollUp:
		if v.Paused && v.ScrollOffset < maxScroll {
			v.ScrollOffset++
		}
	case ActionScrollDown:
		if v.Paused && v.ScrollOffset > 0 {
			v.ScrollOffset--
		}
	}
	if !v.Paused {
		v.ScrollOffset = 0
	}
	if v.ScrollOffset > maxScroll {
		v.ScrollOffset = maxScroll
	}
}
