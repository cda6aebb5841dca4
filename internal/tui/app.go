package tui

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/daneel/pkg/models"
)

// Frame cadence bounds.
const (
	DefaultTick = 16 * time.Millisecond
	MinTick     = 5 * time.Millisecond
	MaxTick     = time.Second

	// renderErrorHold is how long the footer keeps showing a render error.
	renderErrorHold = 2 * time.Second
	// maxFPS is the renderer's own ceiling.
	maxFPS = 120
)

// SnapshotSource is the read side of the agent being observed. Current must
// be cheap and must not block; ok is false until a first snapshot exists.
type SnapshotSource interface {
	Current() (snap *models.Snapshot, ok bool)
}

// ChangeNotifier is optionally implemented by a SnapshotSource that can
// signal new snapshots between ticks.
type ChangeNotifier interface {
	Changed() <-chan struct{}
}

// Logger receives diagnostics that must not reach the terminal.
type Logger interface {
	Log(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Log(string, ...interface{}) {}

// Options configures the dashboard.
type Options struct {
	Tick          time.Duration
	AltScreen     bool
	ScrollbackMin int
	Debug         bool
	Palette       Palette
	Logger        Logger
	// Now is the clock used for ages; defaults to time.Now.
	Now func() time.Time
}

// tickMsg drives one frame.
type tickMsg time.Time

// snapshotChangedMsg reports that the source published between ticks.
type snapshotChangedMsg struct{}

// App is the bubbletea model for the dashboard.
type App struct {
	src     SnapshotSource
	changed <-chan struct{}
	opts    Options
	theme   *Theme
	keys    KeyMap
	footer  *Footer
	logger  Logger
	now     func() time.Time

	width  int
	height int

	view     ViewState
	snapshot *models.Snapshot
	ring     *ThoughtRing
	// frozen is the scrollback as it was when the stream was paused.
	frozen []models.Thought
	buf    []models.Thought

	frames        uint64
	inputErrors   uint64
	warnedWindows bool
	renderErrAt   time.Time
	lastFrame     []string
}

// NewApp creates the dashboard model reading from src.
func NewApp(src SnapshotSource, opts Options) *App {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.ScrollbackMin <= 0 {
		opts.ScrollbackMin = 256
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette()
	}
	theme := NewTheme(opts.Palette)
	keys := DefaultKeyMap()

	a := &App{
		src:    src,
		opts:   opts,
		theme:  theme,
		keys:   keys,
		footer: NewFooter(theme, keys),
		logger: opts.Logger,
		now:    opts.Now,
		ring:   NewThoughtRing(ScrollbackCapacity(0, opts.ScrollbackMin)),
	}
	if n, ok := src.(ChangeNotifier); ok {
		a.changed = n.Changed()
	}
	return a
}

// NewProgram wraps app in a bubbletea program. Cancelling ctx stops it.
func NewProgram(ctx context.Context, app *App) *tea.Program {
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithFPS(fpsFor(app.opts.Tick)),
	}
	if app.opts.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return tea.NewProgram(app, opts...)
}

func fpsFor(tick time.Duration) int {
	if tick <= 0 {
		tick = DefaultTick
	}
	fps := int(time.Second / tick)
	return min(max(fps, 1), maxFPS)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.refresh()
	return tea.Batch(a.tick(), a.waitForChange())
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) waitForChange() tea.Cmd {
	if a.changed == nil {
		return nil
	}
	ch := a.changed
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return snapshotChangedMsg{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.apply(a.keys.Action(msg)) {
			return a, tea.Quit
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ring.Resize(ScrollbackCapacity(msg.Height, a.opts.ScrollbackMin))
		if m := a.maxScroll(); a.view.ScrollOffset > m {
			a.view.ScrollOffset = m
		}
		return a, nil

	case tickMsg:
		a.frames++
		a.refresh()
		return a, a.tick()

	case snapshotChangedMsg:
		a.refresh()
		return a, a.waitForChange()

	default:
		// Undecodable input arrives as a stringer prefixed with "?".
		if s, ok := msg.(fmt.Stringer); ok && strings.HasPrefix(s.String(), "?") {
			a.inputErrors++
		}
		return a, nil
	}
}

// apply runs one view-state transition and reports whether to quit.
func (a *App) apply(act Action) bool {
	if act == ActionNone {
		return false
	}
	wasPaused := a.view.Paused
	a.view.Apply(act, a.maxScroll())
	switch {
	case !wasPaused && a.view.Paused:
		a.frozen = a.ring.SnapshotInto(nil)
	case wasPaused && !a.view.Paused:
		a.frozen = nil
	}
	return a.view.ShouldQuit
}

// refresh pulls the latest snapshot. A miss keeps the previous one.
func (a *App) refresh() {
	snap, ok := a.src.Current()
	if !ok || snap == nil || snap == a.snapshot {
		return
	}
	if a.snapshot != nil && snap.SessionID != a.snapshot.SessionID {
		a.logger.Log("session changed %q -> %q, clearing scrollback", a.snapshot.SessionID, snap.SessionID)
		a.ring.Reset()
	}
	if len(snap.MemoryWindows) != models.MemoryWindowCount && !a.warnedWindows {
		a.warnedWindows = true
		a.logger.Log("invalid snapshot: %d memory windows, want %d", len(snap.MemoryWindows), models.MemoryWindowCount)
	}
	a.snapshot = snap
	a.ring.Ingest(snap.RecentThoughts)
}

// scrollback returns the thoughts the stream widget scrolls over.
func (a *App) scrollback() []models.Thought {
	if a.view.Paused && a.frozen != nil {
		return a.frozen
	}
	a.buf = a.ring.SnapshotInto(a.buf)
	return a.buf
}

func (a *App) maxScroll() int {
	lay := ComputeLayout(a.width, a.height)
	return MaxScroll(len(a.scrollback()), lay.Thoughts.Inner().Height)
}

// View implements tea.Model. A panic while drawing keeps the previous frame
// on screen and flags it in the footer.
func (a *App) View() (out string) {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			a.renderErrAt = a.now()
			a.logger.Log("render panic: %v\n%s", r, debug.Stack())
			out = strings.Join(a.recoverFrame(), "\n")
		}
	}()
	lines := a.render()
	a.lastFrame = lines
	return strings.Join(lines, "\n")
}

func (a *App) render() []string {
	lay := ComputeLayout(a.width, a.height)
	f := &Frame{
		Snapshot: a.snapshot,
		View:     a.view,
		Thoughts: a.scrollback(),
		Theme:    a.theme,
		Now:      a.now(),
	}

	lines := make([]string, 0, a.height)
	lines = append(lines, Render(WidgetIdentity, lay.Identity, f)...)
	lines = append(lines, Render(WidgetMemory, lay.Memory, f)...)
	lines = append(lines, joinColumns(
		Render(WidgetThoughtStream, lay.Thoughts, f),
		Render(WidgetVeto, lay.Vetoes, f),
	)...)
	if lay.Footer.Height > 0 {
		lines = append(lines, a.footer.View(a.width, a.status()))
	}
	if a.view.HelpOpen {
		r := HelpRect(lay.Screen)
		lines = overlay(lines, r, Render(WidgetHelp, r, f))
	}
	return lines
}

// recoverFrame is the previous good frame with a fresh footer.
func (a *App) recoverFrame() []string {
	if len(a.lastFrame) == 0 {
		return []string{a.footer.View(a.width, a.status())}
	}
	lines := append([]string(nil), a.lastFrame...)
	lines[len(lines)-1] = a.footer.View(a.width, a.status())
	return lines
}

func (a *App) status() FooterStatus {
	return FooterStatus{
		Paused:       a.view.Paused,
		ScrollOffset: a.view.ScrollOffset,
		RingLen:      a.ring.Len(),
		RingCap:      a.ring.Cap(),
		RenderError:  !a.renderErrAt.IsZero() && a.now().Sub(a.renderErrAt) < renderErrorHold,
		Waiting:      a.snapshot == nil,
		Debug:        a.opts.Debug,
		Frames:       a.frames,
		InputErrors:  a.inputErrors,
	}
}

// ViewState returns the current view state.
func (a *App) ViewState() ViewState { return a.view }

// Snapshot returns the snapshot used by the last frame, or nil.
func (a *App) Snapshot() *models.Snapshot { return a.snapshot }

// Frames returns the number of ticks handled.
func (a *App) Frames() uint64 { return a.frames }

// InputErrors returns how many undecodable input sequences were ignored.
func (a *App) InputErrors() uint64 { return a.inputErrors }
