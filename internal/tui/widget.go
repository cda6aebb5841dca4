package tui

import (
	"time"

	"github.com/ShayCichocki/daneel/pkg/models"
)

// WidgetKind identifies one of the dashboard's fixed widgets.
type WidgetKind int

const (
	WidgetIdentity WidgetKind = iota
	WidgetMemory
	WidgetThoughtStream
	WidgetVeto
	WidgetHelp
)

func (k WidgetKind) String() string {
	switch k {
	case WidgetIdentity:
		return "identity"
	case WidgetMemory:
		return "memory"
	case WidgetThoughtStream:
		return "thought_stream"
	case WidgetVeto:
		return "veto"
	case WidgetHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Frame is everything one render pass reads. A frame holds exactly one
// snapshot; Snapshot is nil until the source has produced one.
type Frame struct {
	Snapshot *models.Snapshot
	View     ViewState
	// Thoughts is the visible scrollback, oldest first.
	Thoughts []models.Thought
	Theme    *Theme
	Now      time.Time
}

// Render draws widget kind into r. The result has r.Height lines, each
// exactly r.Width cells wide.
func Render(kind WidgetKind, r Rect, f *Frame) []string {
	switch kind {
	case WidgetIdentity:
		return renderIdentity(r, f)
	case WidgetMemory:
		return renderMemory(r, f)
	case WidgetThoughtStream:
		return renderThoughts(r, f)
	case WidgetVeto:
		return renderVetoes(r, f)
	case WidgetHelp:
		return renderHelp(r, f.Theme)
	default:
		return ellipsis(r)
	}
}
