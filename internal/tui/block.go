package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const glyphEllipsis = "…"

// block describes a bordered panel with a title embedded in the top border.
type block struct {
	title      string
	titleStyle Style
	border     Style
	// fill pads empty cells; nil leaves them unstyled.
	fill *Style
}

// render draws the block into exactly r.Height rows of r.Width cells. Body
// lines are clipped to the inner rectangle. A rect too small for a border,
// title and one body row renders a single ellipsis instead.
func (b block) render(r Rect, body []string) []string {
	if r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	if r.Width < 3 || r.Height < 3 {
		return ellipsis(r)
	}

	inner := r.Inner()
	rows := make([]string, inner.Height)
	for i := range rows {
		var line string
		if i < len(body) {
			line = body[i]
		}
		rows[i] = fitLine(line, inner.Width, b.fill)
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Width(inner.Width).
		Height(inner.Height).
		MaxWidth(r.Width).
		MaxHeight(r.Height).
		Render(strings.Join(rows, "\n"))
	return b.paint(strings.Split(frame, "\n"), inner.Width)
}

// paint colors the border cells of an uncolored frame and writes the title
// over the top edge.
func (b block) paint(lines []string, innerW int) []string {
	edge := lipgloss.NormalBorder()
	last := len(lines) - 1

	title := ansi.Truncate(b.title, innerW, "")
	top := strings.TrimPrefix(lines[0], edge.TopLeft)
	lines[0] = b.border.Render(edge.TopLeft) +
		b.titleStyle.Render(title) +
		b.border.Render(ansi.TruncateLeft(top, ansi.StringWidth(title), ""))

	left := b.border.Render(edge.Left)
	right := b.border.Render(edge.Right)
	for i := 1; i < last; i++ {
		row := strings.TrimSuffix(strings.TrimPrefix(lines[i], edge.Left), edge.Right)
		lines[i] = left + row + right
	}

	lines[last] = b.border.Render(lines[last])
	return lines
}

// fitLine clips s to width cells and pads the rest with spaces, styled by
// fill when it is set.
func fitLine(s string, width int, fill *Style) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		spaces := strings.Repeat(" ", pad)
		if fill != nil {
			spaces = fill.Render(spaces)
		}
		s += spaces
	}
	return s
}

// ellipsis is the placeholder for a rect below a widget's minimum size.
func ellipsis(r Rect) []string {
	if r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	lines := make([]string, r.Height)
	lines[0] = fitLine(glyphEllipsis, r.Width, nil)
	for i := 1; i < r.Height; i++ {
		lines[i] = strings.Repeat(" ", r.Width)
	}
	return lines
}

// wrapLine word-wraps a styled line to width, hard-breaking long words.
func wrapLine(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	if ansi.StringWidth(s) <= width {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}

// joinColumns places equally tall column blocks side by side.
func joinColumns(cols ...[]string) []string {
	blocks := make([]string, 0, len(cols))
	for _, c := range cols {
		if len(c) > 0 {
			blocks = append(blocks, strings.Join(c, "\n"))
		}
	}
	if len(blocks) == 0 {
		return nil
	}
	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, blocks...), "\n")
}

// overlay replaces the cells under r with popup, which must be r.Height
// rows of r.Width cells.
func overlay(base []string, r Rect, popup []string) []string {
	for i, row := range popup {
		y := r.Y + i
		if y < 0 || y >= len(base) {
			continue
		}
		line := base[y]
		left := fitLine(line, r.X, nil)
		right := ansi.TruncateLeft(line, r.X+r.Width, "")
		base[y] = left + row + right
	}
	return base
}
