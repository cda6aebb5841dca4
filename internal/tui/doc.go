// Package tui provides the observable-mind dashboard.
//
// The dashboard is a read-only view of a running cognitive agent. Each frame
// it pulls one snapshot from a SnapshotSource, lays the screen out into fixed
// regions and draws the fixed widget set into them:
//   - Identity: agent name, uptime, thought counters and rate
//   - Memory windows: the nine working-memory slots and memory totals
//   - Thought stream: recent thoughts with salience bars, pausable and scrollable
//   - Veto log: the most recent volition vetoes
//   - Help: a centered keyboard reference drawn over everything else
//
// Rendering is pure: widgets map a Rect and a Frame to exactly Rect.Height
// lines of Rect.Width cells, clipping rather than overflowing.
//
// Usage:
//
//	app := tui.NewApp(src, tui.Options{Tick: 16 * time.Millisecond, AltScreen: true})
//	if _, err := tui.NewProgram(ctx, app).Run(); err != nil {
//	    return err
//	}
package tui
