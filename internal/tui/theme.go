package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Style is a text style over palette colors. On a truecolor terminal the
// colors are written through x/ansi as exact 38;2 and 48;2 sequences, since
// lipgloss parses hex colors through floats and rounds some channels down.
// Every other profile renders through lipgloss, which maps the colors to the
// nearest one the terminal supports.
type Style struct {
	fg, bg Color
	bold   bool
	italic bool
	faint  bool
}

// NewStyle returns an empty style.
func NewStyle() Style { return Style{} }

// Foreground sets the text color.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background sets the cell color.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// Bold sets the bold attribute.
func (s Style) Bold(v bool) Style {
	s.bold = v
	return s
}

// Italic sets the italic attribute.
func (s Style) Italic(v bool) Style {
	s.italic = v
	return s
}

// Faint sets the faint attribute.
func (s Style) Faint(v bool) Style {
	s.faint = v
	return s
}

// Render applies the style to a single line of text.
func (s Style) Render(text string) string {
	if text == "" {
		return ""
	}
	if lipgloss.ColorProfile() == termenv.TrueColor {
		return s.sgr().Styled(text)
	}
	return s.Lipgloss().Render(text)
}

// sgr builds the escape sequence with attributes first and colors last.
func (s Style) sgr() ansi.Style {
	var st ansi.Style
	if s.bold {
		st = st.Bold()
	}
	if s.faint {
		st = st.Faint()
	}
	if s.italic {
		st = st.Italic()
	}
	if rgb, ok := s.fg.RGB(); ok {
		st = st.ForegroundColor(rgb)
	}
	if rgb, ok := s.bg.RGB(); ok {
		st = st.BackgroundColor(rgb)
	}
	return st
}

// Lipgloss converts s for components that take lipgloss styles.
func (s Style) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.bold {
		st = st.Bold(true)
	}
	if s.faint {
		st = st.Faint(true)
	}
	if s.italic {
		st = st.Italic(true)
	}
	if rgb, ok := s.fg.RGB(); ok {
		st = st.Foreground(lipgloss.Color(rgb.Hex()))
	}
	if rgb, ok := s.bg.RGB(); ok {
		st = st.Background(lipgloss.Color(rgb.Hex()))
	}
	return st
}

// Theme holds the styles derived from a Palette. Built once at startup.
type Theme struct {
	Palette Palette

	Label     Style
	Text      Style
	Title     Style
	Name      Style
	Lifetime  Style
	Success   Style
	Secondary Style
	Warning   Style
	Primary   Style
	Muted     Style
	Empty     Style
	VetoTag   Style

	DimBorder    Style
	DangerBorder Style
	DangerTitle  Style

	// Help overlay styles carry the background fill.
	HelpBorder Style
	HelpTitle  Style
	HelpKey    Style
	HelpDesc   Style
	HelpFill   Style

	Running Style
	Paused  Style
	Error   Style
}

// NewTheme derives the widget styles from p.
func NewTheme(p Palette) *Theme {
	dim := NewStyle().Foreground(p.Dim)
	if p.Mono {
		dim = dim.Faint(true)
	}
	fg := NewStyle().Foreground(p.Foreground)
	bg := NewStyle().Background(p.Background)

	return &Theme{
		Palette: p,

		Label:     dim,
		Text:      fg,
		Title:     NewStyle().Foreground(p.Primary).Bold(true),
		Name:      NewStyle().Foreground(p.Primary).Bold(true),
		Lifetime:  NewStyle().Foreground(p.Success).Bold(true),
		Success:   NewStyle().Foreground(p.Success),
		Secondary: NewStyle().Foreground(p.Secondary),
		Warning:   NewStyle().Foreground(p.Warning),
		Primary:   NewStyle().Foreground(p.Primary),
		Muted:     dim,
		Empty:     dim.Italic(true),
		VetoTag:   NewStyle().Foreground(p.Danger).Bold(true),

		DimBorder:    dim,
		DangerBorder: NewStyle().Foreground(p.Danger),
		DangerTitle:  NewStyle().Foreground(p.Danger).Bold(true),

		HelpBorder: bg.Foreground(p.Primary),
		HelpTitle:  bg.Foreground(p.Primary).Bold(true),
		HelpKey:    bg.Foreground(p.Highlight).Bold(true),
		HelpDesc:   bg.Foreground(p.Foreground),
		HelpFill:   bg,

		Running: NewStyle().Foreground(p.Success).Bold(true),
		Paused:  NewStyle().Foreground(p.Warning).Bold(true),
		Error:   NewStyle().Foreground(p.Danger).Bold(true),
	}
}

// awaiting is the body shown before the first snapshot arrives.
func (t *Theme) awaiting() []string {
	return []string{t.Empty.Render("awaiting first snapshot…")}
}
