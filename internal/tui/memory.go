package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ShayCichocki/daneel/pkg/models"
)

func renderMemory(r Rect, f *Frame) []string {
	t := f.Theme
	b := block{title: " MEMORY WINDOWS ", titleStyle: t.Title, border: t.DimBorder}
	if f.Snapshot == nil {
		return b.render(r, t.awaiting())
	}
	s := f.Snapshot
	windows, _ := s.NormalizedWindows()

	var slots strings.Builder
	for i, w := range windows {
		slots.WriteString(t.Label.Render(fmt.Sprintf("[%d] ", i+1)))
		if w.Active {
			slots.WriteString(t.Primary.Render("██"))
		} else {
			slots.WriteString(t.Muted.Render("░░"))
		}
		slots.WriteString("  ")
	}

	k := s.ActiveWindows()
	active := NewStyle().Foreground(t.Palette.ActiveWindowsColor(k))
	if t.Palette.Mono && k < 3 {
		active = active.Bold(true)
	}
	total := s.MemoryCount + s.UnconsciousCount
	summary := t.Label.Render("Active: ") +
		active.Render(fmt.Sprintf("%d/%d", k, models.MemoryWindowCount)) +
		t.Label.Render(" │ Conscious: ") + t.Success.Render(strconv.FormatUint(s.MemoryCount, 10)) +
		t.Label.Render("  Unconscious: ") + t.Secondary.Render(strconv.FormatUint(s.UnconsciousCount, 10)) +
		t.Label.Render("  Total: ") + t.Text.Render(strconv.FormatUint(total, 10))

	return b.render(r, []string{slots.String(), summary})
}
