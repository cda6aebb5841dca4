package tui

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ShayCichocki/daneel/pkg/models"
)

type fakeSource struct {
	snap *models.Snapshot
}

func (s *fakeSource) Current() (*models.Snapshot, bool) {
	return s.snap, s.snap != nil
}

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Log(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
}

// unknownSeq mimics the messages bubbletea emits for undecodable input.
type unknownSeq string

func (u unknownSeq) String() string { return "?" + string(u) }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestApp(t *testing.T, snap *models.Snapshot) (*App, *fakeSource, *recordingLogger) {
	t.Helper()
	src := &fakeSource{snap: snap}
	logger := &recordingLogger{}
	app := NewApp(src, Options{
		Logger: logger,
		Now:    func() time.Time { return testNow },
	})
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, src, logger
}

func snapshotWithThoughts(n int) *models.Snapshot {
	snap := testSnapshot()
	snap.RecentThoughts = testThoughts(n)
	return snap
}

// =============================================================================
// Key Handling Tests
// =============================================================================

func TestApp_QuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		app, _, _ := newTestApp(t, testSnapshot())
		_, cmd := app.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg.String())
		}
		if !app.ViewState().ShouldQuit {
			t.Errorf("%s: expected ShouldQuit", msg.String())
		}
	}
}

func TestApp_PauseScrollSequence(t *testing.T) {
	app, _, _ := newTestApp(t, snapshotWithThoughts(100))

	observed := []int{app.ViewState().ScrollOffset}
	keys := []tea.KeyMsg{runeKey('p'), {Type: tea.KeyUp}, {Type: tea.KeyUp}, {Type: tea.KeyUp}, runeKey('p')}
	for _, k := range keys {
		app.Update(k)
		observed = append(observed, app.ViewState().ScrollOffset)
	}

	want := []int{0, 0, 1, 2, 3, 0}
	for i := range want {
		if observed[i] != want[i] {
			t.Fatalf("expected offsets %v, got %v", want, observed)
		}
	}
}

func TestApp_ScrollSaturates(t *testing.T) {
	// 40 rows leave a 28-row thought viewport.
	app, _, _ := newTestApp(t, snapshotWithThoughts(30))
	app.Update(runeKey('p'))
	for i := 0; i < 10; i++ {
		app.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if got := app.ViewState().ScrollOffset; got != 2 {
		t.Errorf("expected offset to saturate at 2, got %d", got)
	}
}

func TestApp_HelpToggle(t *testing.T) {
	app, _, _ := newTestApp(t, testSnapshot())

	app.Update(runeKey('?'))
	if !strings.Contains(ansi.Strip(app.View()), "KEYBOARD CONTROLS") {
		t.Error("expected help overlay after first press")
	}

	app.Update(runeKey('?'))
	if strings.Contains(ansi.Strip(app.View()), "KEYBOARD CONTROLS") {
		t.Error("expected help overlay hidden after second press")
	}
}

func TestApp_EscClosesHelpThenResumes(t *testing.T) {
	app, _, _ := newTestApp(t, snapshotWithThoughts(100))
	app.Update(runeKey('p'))
	app.Update(runeKey('?'))

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if v := app.ViewState(); v.HelpOpen || !v.Paused {
		t.Errorf("expected help closed and still paused, got %+v", v)
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if v := app.ViewState(); v.Paused {
		t.Errorf("expected resumed, got %+v", v)
	}
}

// =============================================================================
// Snapshot Tests
// =============================================================================

func TestApp_PausedStreamIsFrozen(t *testing.T) {
	app, src, _ := newTestApp(t, snapshotWithThoughts(10))
	app.Update(runeKey('p'))

	next := snapshotWithThoughts(20)
	src.snap = next
	app.Update(tickMsg(testNow))

	if app.Snapshot() != next {
		t.Error("expected the snapshot to keep refreshing while paused")
	}
	if got := len(app.scrollback()); got != 10 {
		t.Errorf("expected frozen scrollback of 10, got %d", got)
	}
	if app.ring.Len() != 20 {
		t.Errorf("expected ring to keep ingesting, got %d", app.ring.Len())
	}

	app.Update(runeKey('p'))
	if got := len(app.scrollback()); got != 20 {
		t.Errorf("expected live scrollback of 20 after resume, got %d", got)
	}
}

func TestApp_SessionChangeClearsScrollback(t *testing.T) {
	app, src, _ := newTestApp(t, snapshotWithThoughts(10))

	next := snapshotWithThoughts(3)
	next.SessionID = "session-b"
	src.snap = next
	app.Update(tickMsg(testNow))

	if app.ring.Len() != 3 {
		t.Errorf("expected scrollback of the new session only, got %d", app.ring.Len())
	}
}

func TestApp_MissKeepsLastSnapshot(t *testing.T) {
	app, src, _ := newTestApp(t, testSnapshot())
	first := app.Snapshot()

	src.snap = nil
	app.Update(tickMsg(testNow))
	if app.Snapshot() != first {
		t.Error("expected the previous snapshot to be reused")
	}
}

func TestApp_AwaitingFirstSnapshot(t *testing.T) {
	app, src, _ := newTestApp(t, nil)

	view := ansi.Strip(app.View())
	if !strings.Contains(view, "awaiting first snapshot…") {
		t.Error("expected awaiting message before the first snapshot")
	}

	src.snap = testSnapshot()
	app.Update(tickMsg(testNow))
	if strings.Contains(ansi.Strip(app.View()), "awaiting first snapshot…") {
		t.Error("expected awaiting message to go away")
	}
}

func TestApp_InvalidWindowsLoggedOnce(t *testing.T) {
	snap := testSnapshot()
	snap.MemoryWindows = windows(3)[:4]
	app, src, logger := newTestApp(t, snap)

	again := testSnapshot()
	again.MemoryWindows = nil
	src.snap = again
	app.Update(tickMsg(testNow))

	count := 0
	for _, m := range logger.msgs {
		if strings.Contains(m, "memory windows") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one invalid-snapshot log line, got %d: %v", count, logger.msgs)
	}
}

// =============================================================================
// Frame Tests
// =============================================================================

func TestApp_ViewFillsScreen(t *testing.T) {
	for _, size := range [][2]int{{120, 40}, {80, 24}, {40, 12}, {20, 6}, {200, 80}} {
		app, _, _ := newTestApp(t, snapshotWithThoughts(50))
		app.Update(tea.WindowSizeMsg{Width: size[0], Height: size[1]})
		app.Update(runeKey('?'))

		lines := strings.Split(app.View(), "\n")
		if len(lines) != size[1] {
			t.Errorf("%dx%d: expected %d lines, got %d", size[0], size[1], size[1], len(lines))
		}
		for i, l := range lines {
			if w := ansi.StringWidth(l); w != size[0] {
				t.Errorf("%dx%d: line %d width %d", size[0], size[1], i, w)
			}
		}
	}
}

func TestApp_ResizeGrowsScrollback(t *testing.T) {
	app, _, _ := newTestApp(t, testSnapshot())
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 100})
	if app.ring.Cap() != 400 {
		t.Errorf("expected capacity 400, got %d", app.ring.Cap())
	}
}

func TestApp_RenderPanicKeepsLastFrame(t *testing.T) {
	app, _, logger := newTestApp(t, testSnapshot())
	good := app.View()

	app.theme = nil
	out := app.View()

	lines := strings.Split(out, "\n")
	if len(lines) != 40 {
		t.Fatalf("expected a full frame, got %d lines", len(lines))
	}
	if !strings.Contains(ansi.Strip(lines[len(lines)-1]), "render error") {
		t.Errorf("expected render error in footer, got %q", ansi.Strip(lines[len(lines)-1]))
	}
	goodLines := strings.Split(good, "\n")
	if lines[0] != goodLines[0] {
		t.Error("expected the previous frame to be kept")
	}
	if len(logger.msgs) == 0 || !strings.Contains(logger.msgs[len(logger.msgs)-1], "render panic") {
		t.Error("expected the panic to be logged")
	}
}

func TestApp_CountsInputErrors(t *testing.T) {
	app, _, _ := newTestApp(t, testSnapshot())
	app.opts.Debug = true

	app.Update(unknownSeq("CSI 99 ~"))
	app.Update(unknownSeq("\x1b[200"))
	if app.InputErrors() != 2 {
		t.Errorf("expected 2 input errors, got %d", app.InputErrors())
	}
	if !strings.Contains(ansi.Strip(app.View()), "input errors 2") {
		t.Error("expected input error counter in debug footer")
	}
}

func TestApp_TickReschedules(t *testing.T) {
	app, _, _ := newTestApp(t, testSnapshot())
	_, cmd := app.Update(tickMsg(testNow))
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if app.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", app.Frames())
	}
}

func TestFPSFor(t *testing.T) {
	tests := []struct {
		tick time.Duration
		want int
	}{
		{16 * time.Millisecond, 62},
		{5 * time.Millisecond, maxFPS},
		{time.Second, 1},
		{0, 62},
	}
	for _, tt := range tests {
		if got := fpsFor(tt.tick); got != tt.want {
			t.Errorf("fpsFor(%v) = %d, want %d", tt.tick, got, tt.want)
		}
	}
}
