package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/ShayCichocki/daneel/pkg/models"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// withProfile sets the default renderer's color profile for one test.
func withProfile(t *testing.T, p termenv.Profile) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(p)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

// withTrueColor forces 24-bit color sequences.
func withTrueColor(t *testing.T) {
	t.Helper()
	withProfile(t, termenv.TrueColor)
}

func strPtr(s string) *string { return &s }

func windows(active int) []models.MemoryWindow {
	ws := make([]models.MemoryWindow, models.MemoryWindowCount)
	for i := 0; i < active && i < len(ws); i++ {
		ws[i].Active = true
	}
	return ws
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		SessionID:            "session-a",
		AgentName:            "Timmy",
		Uptime:               2*time.Hour + 7*time.Minute + 9*time.Second,
		ThoughtCount:         4213,
		LifetimeThoughtCount: 1_234_567,
		ThoughtsPerHour:      1987.4,
		MemoryCount:          42,
		UnconsciousCount:     17,
		MemoryWindows:        windows(5),
		VetoCount:            3,
		Vetoes: []models.VetoRecord{
			{Timestamp: testNow.Add(-3 * time.Hour), ViolatedValue: strPtr("care"), Reason: "harmful"},
			{Timestamp: testNow.Add(-2 * time.Minute), Reason: "no value given"},
			{Timestamp: testNow.Add(-5 * time.Second), ViolatedValue: strPtr("honesty"), Reason: "would deceive"},
		},
	}
}

func testThoughts(n int) []models.Thought {
	out := make([]models.Thought, n)
	for i := range out {
		out[i] = models.Thought{
			Seq:       uint64(i + 1),
			Timestamp: testNow,
			Salience:  float32(i%10) / 10,
			Text:      fmt.Sprintf("thought %d", i+1),
		}
	}
	return out
}

func testFrame(snap *models.Snapshot) *Frame {
	return &Frame{
		Snapshot: snap,
		Theme:    NewTheme(DefaultPalette()),
		Now:      testNow,
		Thoughts: testThoughts(50),
	}
}

func plain(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Strip(l)
	}
	return out
}

func containsLine(lines []string, sub string) bool {
	for _, l := range lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

// =============================================================================
// Bounds Tests
// =============================================================================

func TestRender_StaysInsideRect(t *testing.T) {
	kinds := []WidgetKind{WidgetIdentity, WidgetMemory, WidgetThoughtStream, WidgetVeto, WidgetHelp}
	sizes := [][2]int{{0, 0}, {1, 1}, {2, 5}, {5, 2}, {3, 3}, {10, 4}, {20, 5}, {40, 12}, {80, 30}, {200, 60}}

	for _, snap := range []*models.Snapshot{nil, testSnapshot()} {
		f := testFrame(snap)
		for _, kind := range kinds {
			for _, sz := range sizes {
				r := Rect{Width: sz[0], Height: sz[1]}
				lines := Render(kind, r, f)
				if len(lines) != r.Height && r.Area() > 0 {
					t.Errorf("%s %dx%d: expected %d lines, got %d", kind, sz[0], sz[1], r.Height, len(lines))
				}
				if r.Area() == 0 && len(lines) != 0 {
					t.Errorf("%s %dx%d: expected no output for empty rect, got %d lines", kind, sz[0], sz[1], len(lines))
				}
				for i, l := range lines {
					if w := ansi.StringWidth(l); w != r.Width {
						t.Errorf("%s %dx%d line %d: width %d", kind, sz[0], sz[1], i, w)
					}
				}
			}
		}
	}
}

func TestRender_TooSmallShowsEllipsis(t *testing.T) {
	lines := plain(Render(WidgetIdentity, Rect{Width: 2, Height: 5}, testFrame(testSnapshot())))
	if !strings.HasPrefix(lines[0], "…") {
		t.Errorf("expected ellipsis, got %q", lines[0])
	}
}

func TestRender_AwaitingSnapshot(t *testing.T) {
	f := testFrame(nil)
	for _, kind := range []WidgetKind{WidgetIdentity, WidgetMemory, WidgetThoughtStream, WidgetVeto} {
		lines := plain(Render(kind, Rect{Width: 60, Height: 6}, f))
		if !containsLine(lines, "awaiting first snapshot…") {
			t.Errorf("%s: expected awaiting line, got %q", kind, lines)
		}
	}
}

// =============================================================================
// Identity Tests
// =============================================================================

func TestIdentity_Body(t *testing.T) {
	lines := plain(Render(WidgetIdentity, Rect{Width: 80, Height: 7}, testFrame(testSnapshot())))

	if !strings.Contains(lines[0], " IDENTITY ") {
		t.Errorf("expected title in top border, got %q", lines[0])
	}
	want := []string{
		"Name: Timmy   Uptime: 2h07m09s",
		"Thoughts: 4213   Lifetime: 1,234,567",
		"",
		"Memories: 42 ↑   Rate: 1987/hr",
		"Unconscious: 17 ↓",
	}
	for i, w := range want {
		got := strings.TrimRight(strings.Trim(lines[i+1], "│"), " ")
		if got != w {
			t.Errorf("line %d: expected %q, got %q", i+1, w, got)
		}
	}
}

func TestIdentity_DropsSpacerWhenShort(t *testing.T) {
	lines := plain(Render(WidgetIdentity, Rect{Width: 80, Height: 5}, testFrame(testSnapshot())))
	if !strings.Contains(lines[3], "Memories: 42") {
		t.Errorf("expected memories on the third body row, got %q", lines[3])
	}
}

// =============================================================================
// Memory Tests
// =============================================================================

func TestMemory_Slots(t *testing.T) {
	snap := testSnapshot()
	snap.MemoryWindows = windows(2)
	lines := plain(Render(WidgetMemory, Rect{Width: 120, Height: 4}, testFrame(snap)))

	if !strings.Contains(lines[1], "[1] ██  [2] ██  [3] ░░  ") {
		t.Errorf("unexpected slot row %q", lines[1])
	}
	if !strings.Contains(lines[1], "[9] ░░") {
		t.Errorf("expected nine slots, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "Active: 2/9 │ Conscious: 42  Unconscious: 17  Total: 59") {
		t.Errorf("unexpected summary row %q", lines[2])
	}
}

func TestMemory_ActiveColor(t *testing.T) {
	withTrueColor(t)

	tests := []struct {
		active int
		rgb    RGB
	}{
		{7, WarningRGB},
		{2, DangerRGB},
		{4, SuccessRGB},
	}
	for _, tt := range tests {
		snap := testSnapshot()
		snap.MemoryWindows = windows(tt.active)
		lines := Render(WidgetMemory, Rect{Width: 120, Height: 4}, testFrame(snap))

		seq := fmt.Sprintf("38;2;%d;%d;%dm%d/9", tt.rgb.R, tt.rgb.G, tt.rgb.B, tt.active)
		if !strings.Contains(lines[2], seq) {
			t.Errorf("active=%d: expected %q in %q", tt.active, seq, lines[2])
		}
		if !strings.Contains(ansi.Strip(lines[2]), fmt.Sprintf("Active: %d/9", tt.active)) {
			t.Errorf("active=%d: expected Active text, got %q", tt.active, ansi.Strip(lines[2]))
		}
	}
}

func TestMemory_PadsShortWindows(t *testing.T) {
	snap := testSnapshot()
	snap.MemoryWindows = []models.MemoryWindow{{Active: true}, {Active: true}, {Active: true}}
	lines := plain(Render(WidgetMemory, Rect{Width: 120, Height: 4}, testFrame(snap)))

	if !strings.Contains(lines[1], "[9] ░░") {
		t.Errorf("expected padded inactive slots, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "Active: 3/9") {
		t.Errorf("expected 3 active, got %q", lines[2])
	}
}

// =============================================================================
// Veto Tests
// =============================================================================

func TestVeto_Empty(t *testing.T) {
	snap := testSnapshot()
	snap.Vetoes = nil
	snap.VetoCount = 0
	lines := plain(Render(WidgetVeto, Rect{Width: 80, Height: 6}, testFrame(snap)))

	if !strings.Contains(lines[0], "VOLITION VETO LOG (Stage 4.5 - Free Won't) - Total: 0") {
		t.Errorf("unexpected title row %q", lines[0])
	}
	if !strings.Contains(lines[1], "No vetoes yet - all thoughts passing volition check") {
		t.Errorf("expected empty message, got %q", lines[1])
	}
	for i := 2; i < len(lines)-1; i++ {
		if strings.TrimSpace(strings.Trim(lines[i], "│")) != "" {
			t.Errorf("expected blank row %d, got %q", i, lines[i])
		}
	}
}

func TestVeto_Entries(t *testing.T) {
	lines := plain(Render(WidgetVeto, Rect{Width: 80, Height: 5}, testFrame(testSnapshot())))

	want := []string{
		" 3h ago │ VETO [care] harmful",
		" 2m ago │ VETO [unknown] no value given",
		" 5s ago │ VETO [honesty] would deceive",
	}
	for i, w := range want {
		if !strings.HasPrefix(lines[i+1], "│"+w) {
			t.Errorf("row %d: expected %q, got %q", i+1, w, lines[i+1])
		}
	}
	if !strings.Contains(lines[0], "Total: 3") {
		t.Errorf("expected total in title, got %q", lines[0])
	}
}

func TestVeto_ShowsNewestWhenFull(t *testing.T) {
	snap := testSnapshot()
	snap.Vetoes = nil
	for i := 1; i <= 10; i++ {
		snap.Vetoes = append(snap.Vetoes, models.VetoRecord{
			Timestamp: testNow.Add(-time.Duration(11-i) * time.Second),
			Reason:    fmt.Sprintf("reason %d", i),
		})
	}
	lines := plain(Render(WidgetVeto, Rect{Width: 80, Height: 5}, testFrame(snap)))

	for i, n := range []int{8, 9, 10} {
		if !strings.Contains(lines[i+1], fmt.Sprintf("reason %d", n)) {
			t.Errorf("row %d: expected reason %d, got %q", i+1, n, lines[i+1])
		}
	}
}

func TestVeto_WrapsLongReasons(t *testing.T) {
	snap := testSnapshot()
	snap.Vetoes = []models.VetoRecord{{
		Timestamp: testNow,
		Reason:    strings.Repeat("word ", 20) + "tail",
	}}
	lines := plain(Render(WidgetVeto, Rect{Width: 30, Height: 8}, testFrame(snap)))

	body := strings.Join(lines[1:len(lines)-1], "\n")
	if !strings.Contains(body, "tail") {
		t.Errorf("expected wrapped reason to reach its end, got\n%s", body)
	}
}

// =============================================================================
// Thought Stream Tests
// =============================================================================

func TestSalienceBar(t *testing.T) {
	theme := NewTheme(DefaultPalette())
	tests := []struct {
		s      float32
		filled int
	}{
		{0, 0},
		{0.5, 3},
		{0.95, 6},
		{1, 6},
		{-1, 0},
		{3, 6},
	}
	for _, tt := range tests {
		bar := theme.SalienceBar(tt.s)
		if w := ansi.StringWidth(bar); w != SalienceBarWidth {
			t.Errorf("SalienceBar(%v) width = %d", tt.s, w)
		}
		if got := strings.Count(ansi.Strip(bar), "█"); got != tt.filled {
			t.Errorf("SalienceBar(%v) filled = %d, want %d", tt.s, got, tt.filled)
		}
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		total, height, offset int
		start, end            int
	}{
		{0, 10, 0, 0, 0},
		{5, 10, 0, 0, 5},
		{50, 10, 0, 40, 50},
		{50, 10, 3, 37, 47},
		{50, 10, 99, 0, 10},
		{50, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := VisibleRange(tt.total, tt.height, tt.offset)
		if start != tt.start || end != tt.end {
			t.Errorf("VisibleRange(%d,%d,%d) = [%d,%d), want [%d,%d)",
				tt.total, tt.height, tt.offset, start, end, tt.start, tt.end)
		}
	}
}

func TestThoughts_NewestAtBottom(t *testing.T) {
	f := testFrame(testSnapshot())
	lines := plain(Render(WidgetThoughtStream, Rect{Width: 60, Height: 7}, f))

	if !strings.Contains(lines[5], "thought 50") {
		t.Errorf("expected newest thought on the last body row, got %q", lines[5])
	}
	if !strings.Contains(lines[1], "thought 46") {
		t.Errorf("expected thought 46 on the first body row, got %q", lines[1])
	}
}

func TestThoughts_ScrolledWhenPaused(t *testing.T) {
	f := testFrame(testSnapshot())
	f.View = ViewState{Paused: true, ScrollOffset: 3}
	lines := plain(Render(WidgetThoughtStream, Rect{Width: 60, Height: 7}, f))

	if !strings.Contains(lines[5], "thought 47") {
		t.Errorf("expected thought 47 at the bottom, got %q", lines[5])
	}
	if !strings.Contains(lines[0], "paused, ↑3") {
		t.Errorf("expected paused title, got %q", lines[0])
	}
}

// =============================================================================
// Help Tests
// =============================================================================

func TestHelp_Entries(t *testing.T) {
	r := HelpRect(Rect{Width: 120, Height: 40})
	lines := plain(Render(WidgetHelp, r, testFrame(nil)))

	if !strings.Contains(lines[0], " KEYBOARD CONTROLS ") {
		t.Errorf("expected help title, got %q", lines[0])
	}
	want := []string{
		"  q       Quit",
		"  p       Pause/resume thought stream",
		"  ↑/↓     Scroll when paused",
		"  ?       Toggle this help",
		"  Esc     Close help / resume",
		"",
		"  ─────   ── LEGEND ──────────────",
		"  ↑MEMORY  Consolidated to conscious",
		"  ↓UNCON  Archived to unconscious",
		"  ██████  Salience bar (higher=more)",
	}
	for i, w := range want {
		got := strings.TrimRight(strings.Trim(lines[i+1], "│"), " ")
		if got != w {
			t.Errorf("help row %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestOverlay_Splices(t *testing.T) {
	base := []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}
	out := overlay(base, Rect{X: 3, Y: 1, Width: 4, Height: 1}, []string{"XXXX"})
	if out[1] != "bbbXXXXbbb" {
		t.Errorf("expected bbbXXXXbbb, got %q", out[1])
	}
	if out[0] != "aaaaaaaaaa" || out[2] != "cccccccccc" {
		t.Errorf("rows outside the popup changed: %q", out)
	}
}
