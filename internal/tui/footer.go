package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/x/ansi"
)

// FooterStatus is what the status line reports for one frame.
type FooterStatus struct {
	Paused       bool
	ScrollOffset int
	RingLen      int
	RingCap      int
	RenderError  bool
	Waiting      bool

	// Debug counters, shown only when Debug is set.
	Debug       bool
	Frames      uint64
	InputErrors uint64
}

// Footer renders the status bar and keyboard hints.
type Footer struct {
	theme *Theme
	keys  KeyMap
	help  help.Model
}

// NewFooter creates a Footer styled by theme.
func NewFooter(theme *Theme, keys KeyMap) *Footer {
	h := help.New()
	h.ShortSeparator = " │ "
	h.Styles.ShortKey = theme.Text.Lipgloss()
	h.Styles.ShortDesc = theme.Label.Lipgloss()
	h.Styles.ShortSeparator = theme.Label.Lipgloss()
	h.Styles.Ellipsis = theme.Label.Lipgloss()
	return &Footer{theme: theme, keys: keys, help: h}
}

// View renders the footer as a single line exactly width cells wide.
func (f *Footer) View(width int, st FooterStatus) string {
	if width <= 0 {
		return ""
	}
	t := f.theme
	sep := t.Label.Render(" │ ")

	var parts []string
	if st.Paused {
		label := " PAUSED "
		if st.ScrollOffset > 0 {
			label = fmt.Sprintf(" PAUSED +%d ", st.ScrollOffset)
		}
		parts = append(parts, t.Paused.Render(label))
	} else {
		parts = append(parts, t.Running.Render(" RUNNING "))
	}
	if st.Waiting {
		parts = append(parts, t.Empty.Render("waiting for source"))
	}
	parts = append(parts, t.Label.Render(fmt.Sprintf("scrollback %d/%d", st.RingLen, st.RingCap)))
	if st.RenderError {
		parts = append(parts, t.Error.Render("render error"))
	}
	if st.Debug {
		parts = append(parts, t.Label.Render(fmt.Sprintf("frames %d  input errors %d", st.Frames, st.InputErrors)))
	}
	left := strings.Join(parts, sep)

	f.help.Width = width - ansi.StringWidth(left) - 1
	right := ""
	if f.help.Width > 0 {
		right = f.help.ShortHelpView(f.keys.ShortHelp())
	}

	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return fitLine(left, width, nil)
	}
	return fitLine(left+strings.Repeat(" ", gap)+right, width, nil)
}
