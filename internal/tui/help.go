package tui

import "fmt"

// Help popup size as a percentage of the screen.
const (
	helpPercentX = 50
	helpPercentY = 50
)

type helpEntry struct {
	key  string
	desc string
}

// helpEntries is the help overlay body. A zero entry is a blank row.
var helpEntries = []helpEntry{
	{"q", "Quit"},
	{"p", "Pause/resume thought stream"},
	{"↑/↓", "Scroll when paused"},
	{"?", "Toggle this help"},
	{"Esc", "Close help / resume"},
	{},
	{"─────", "── LEGEND ──────────────"},
	{"↑MEMORY", "Consolidated to conscious"},
	{"↓UNCON", "Archived to unconscious"},
	{"██████", "Salience bar (higher=more)"},
}

// HelpRect is where the help overlay lands on screen.
func HelpRect(screen Rect) Rect {
	return CenteredRect(helpPercentX, helpPercentY, screen)
}

func helpLines(t *Theme) []string {
	lines := make([]string, 0, len(helpEntries))
	for _, e := range helpEntries {
		if e.key == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines,
			t.HelpFill.Render("  ")+
				t.HelpKey.Render(fmt.Sprintf("%-6s", e.key))+
				t.HelpFill.Render("  ")+
				t.HelpDesc.Render(e.desc))
	}
	return lines
}

func renderHelp(r Rect, t *Theme) []string {
	fill := t.HelpFill
	b := block{
		title:      " KEYBOARD CONTROLS ",
		titleStyle: t.HelpTitle,
		border:     t.HelpBorder,
		fill:       &fill,
	}
	return b.render(r, helpLines(t))
}
