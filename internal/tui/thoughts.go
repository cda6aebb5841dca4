package tui

import (
	"fmt"
	"math"
	"strings"
)

// SalienceBarWidth is the cell width of a thought's salience bar.
const SalienceBarWidth = 6

// SalienceBar draws a bar whose filled part is proportional to s.
func (t *Theme) SalienceBar(s float32) string {
	filled := int(math.Round(float64(clampUnit(s)) * SalienceBarWidth))
	fill := NewStyle().Foreground(t.Palette.SalienceColor(s))
	return fill.Render(strings.Repeat("█", filled)) +
		t.Muted.Render(strings.Repeat("░", SalienceBarWidth-filled))
}

// MaxScroll is the largest useful scroll offset for total lines in a
// viewport of height rows.
func MaxScroll(total, height int) int {
	if height < 0 {
		height = 0
	}
	if total <= height {
		return 0
	}
	return total - height
}

// VisibleRange returns the half-open index range of the lines shown when
// the viewport sits offset lines up from the bottom.
func VisibleRange(total, height, offset int) (start, end int) {
	if total <= 0 || height <= 0 {
		return 0, 0
	}
	if offset < 0 {
		offset = 0
	}
	if m := MaxScroll(total, height); offset > m {
		offset = m
	}
	end = total - offset
	start = end - height
	if start < 0 {
		start = 0
	}
	return start, end
}

func thoughtsTitle(v ViewState) string {
	switch {
	case v.Paused && v.ScrollOffset > 0:
		return fmt.Sprintf(" THOUGHT STREAM (paused, ↑%d) ", v.ScrollOffset)
	case v.Paused:
		return " THOUGHT STREAM (paused) "
	default:
		return " THOUGHT STREAM "
	}
}

func renderThoughts(r Rect, f *Frame) []string {
	t := f.Theme
	b := block{title: thoughtsTitle(f.View), titleStyle: t.Title, border: t.DimBorder}
	if f.View.Paused {
		b.titleStyle = t.Paused
	}
	if f.Snapshot == nil {
		return b.render(r, t.awaiting())
	}
	if len(f.Thoughts) == 0 {
		return b.render(r, []string{t.Empty.Render("No thoughts yet")})
	}

	inner := r.Inner()
	start, end := VisibleRange(len(f.Thoughts), inner.Height, f.View.ScrollOffset)
	lines := make([]string, 0, end-start)
	for _, th := range f.Thoughts[start:end] {
		lines = append(lines, t.SalienceBar(th.Salience)+" "+t.Text.Render(singleLine(th.Text)))
	}
	return b.render(r, lines)
}
