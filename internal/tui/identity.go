package tui

import "strconv"

func renderIdentity(r Rect, f *Frame) []string {
	t := f.Theme
	b := block{title: " IDENTITY ", titleStyle: t.Title, border: t.DimBorder}
	if f.Snapshot == nil {
		return b.render(r, t.awaiting())
	}
	s := f.Snapshot

	lines := []string{
		t.Label.Render("Name: ") + t.Name.Render(singleLine(s.AgentName)) +
			t.Label.Render("   Uptime: ") + t.Text.Render(FormatUptime(s.Uptime)),
		t.Label.Render("Thoughts: ") + t.Text.Render(strconv.FormatUint(s.ThoughtCount, 10)) +
			t.Label.Render("   Lifetime: ") + t.Lifetime.Render(FormatWithCommas(s.LifetimeThoughtCount)),
		"",
		t.Label.Render("Memories: ") + t.Text.Render(strconv.FormatUint(s.MemoryCount, 10)) +
			t.Success.Render(" ↑") +
			t.Label.Render("   Rate: ") + t.Text.Render(FormatRate(s.ThoughtsPerHour)),
		t.Label.Render("Unconscious: ") + t.Text.Render(strconv.FormatUint(s.UnconsciousCount, 10)) +
			t.Secondary.Render(" ↓"),
	}
	// The spacer goes first when rows are short.
	if r.Inner().Height < len(lines) {
		lines = append(lines[:2], lines[3:]...)
	}
	return b.render(r, lines)
}
