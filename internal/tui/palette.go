package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/muesli/termenv"
)

// RGB is a 24-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Color makes the triple a palette role.
func (c RGB) Color() Color {
	return Color{rgb: c, ok: true}
}

// Color is one palette role. The zero Color leaves the terminal default.
type Color struct {
	rgb RGB
	ok  bool
}

// NoColor is the uncolored role.
var NoColor = Color{}

// RGB returns the triple and whether the role carries a color at all.
func (c Color) RGB() (RGB, bool) {
	return c.rgb, c.ok
}

func (c Color) String() string {
	if !c.ok {
		return "none"
	}
	return c.rgb.Hex()
}

// Semantic color triples.
var (
	BackgroundRGB = RGB{15, 15, 25}
	ForegroundRGB = RGB{200, 200, 210}
	PrimaryRGB    = RGB{0, 180, 140}
	SecondaryRGB  = RGB{140, 100, 220}
	SuccessRGB    = RGB{80, 200, 120}
	WarningRGB    = RGB{220, 180, 60}
	DangerRGB     = RGB{220, 80, 80}
	DimRGB        = RGB{100, 100, 110}
	HighlightRGB  = RGB{255, 220, 100}
)

// Palette is the fixed set of named colors widgets draw with. Widgets never
// emit raw RGB; they pick a role from the palette.
type Palette struct {
	Background Color
	Foreground Color
	Primary    Color
	Secondary  Color
	Success    Color
	Warning    Color
	Danger     Color
	Dim        Color
	Highlight  Color

	// Mono is set when colors are suppressed; dim roles fall back to faint text.
	Mono bool
}

// DefaultPalette returns the truecolor palette.
func DefaultPalette() Palette {
	return Palette{
		Background: BackgroundRGB.Color(),
		Foreground: ForegroundRGB.Color(),
		Primary:    PrimaryRGB.Color(),
		Secondary:  SecondaryRGB.Color(),
		Success:    SuccessRGB.Color(),
		Warning:    WarningRGB.Color(),
		Danger:     DangerRGB.Color(),
		Dim:        DimRGB.Color(),
		Highlight:  HighlightRGB.Color(),
	}
}

// MonochromePalette returns a palette with every role uncolored, used when
// NO_COLOR is set. Bold, italic and faint attributes still apply.
func MonochromePalette() Palette {
	none := NoColor
	return Palette{
		Background: none,
		Foreground: none,
		Primary:    none,
		Secondary:  none,
		Success:    none,
		Warning:    none,
		Danger:     none,
		Dim:        none,
		Highlight:  none,
		Mono:       true,
	}
}

// PaletteFromEnv picks the palette for the given environment lookup.
func PaletteFromEnv(getenv func(string) string) Palette {
	if noColor(getenv) {
		return MonochromePalette()
	}
	return DefaultPalette()
}

// SalienceBand is the color band a salience value falls into.
type SalienceBand int

const (
	BandDim SalienceBand = iota
	BandNormal
	BandPrimary
	BandCritical
)

// SalienceBandOf classifies s by half-open intervals [0.3,0.7), [0.7,0.9), [0.9,∞).
// Anything below 0.3, including negatives and NaN, is BandDim.
func SalienceBandOf(s float32) SalienceBand {
	switch {
	case s >= 0.9:
		return BandCritical
	case s >= 0.7:
		return BandPrimary
	case s >= 0.3:
		return BandNormal
	default:
		return BandDim
	}
}

// SalienceColor maps a salience value to its palette color.
func (p Palette) SalienceColor(s float32) Color {
	switch SalienceBandOf(s) {
	case BandCritical:
		return p.Highlight
	case BandPrimary:
		return p.Primary
	case BandNormal:
		return p.Foreground
	default:
		return p.Dim
	}
}

// ActiveWindowsColor colors the "k/9" counter: below the floor of three is
// under-engaged, seven or more is near capacity.
func (p Palette) ActiveWindowsColor(k int) Color {
	switch {
	case k < 3:
		return p.Danger
	case k <= 6:
		return p.Success
	default:
		return p.Warning
	}
}

// DetectProfile chooses a color profile from TERM/COLORTERM. Without a
// truecolor hint the renderer falls back to the 256-color palette.
func DetectProfile(getenv func(string) string) termenv.Profile {
	if noColor(getenv) {
		// Colors are already stripped by the palette; keep attributes.
		return termenv.ANSI
	}
	colorTerm := strings.ToLower(getenv("COLORTERM"))
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		return termenv.TrueColor
	}
	term := strings.ToLower(getenv("TERM"))
	switch {
	case term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "truecolor"), strings.Contains(term, "24bit"), strings.Contains(term, "direct"):
		return termenv.TrueColor
	default:
		return termenv.ANSI256
	}
}

func noColor(getenv func(string) string) bool {
	return getenv("NO_COLOR") != ""
}

func clampUnit(s float32) float32 {
	if math.IsNaN(float64(s)) || s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
