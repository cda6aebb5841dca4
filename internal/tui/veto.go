package tui

import (
	"fmt"
	"time"

	"github.com/ShayCichocki/daneel/pkg/models"
)

const noVetoes = "No vetoes yet - all thoughts passing volition check"

func renderVetoes(r Rect, f *Frame) []string {
	t := f.Theme
	var count uint64
	if f.Snapshot != nil {
		count = f.Snapshot.VetoCount
	}
	b := block{
		title:      fmt.Sprintf(" VOLITION VETO LOG (Stage 4.5 - Free Won't) - Total: %d ", count),
		titleStyle: t.DangerTitle,
		border:     t.DangerBorder,
	}
	if f.Snapshot == nil {
		return b.render(r, t.awaiting())
	}
	vetoes := f.Snapshot.Vetoes
	if len(vetoes) == 0 {
		return b.render(r, []string{t.Empty.Render(noVetoes)})
	}

	inner := r.Inner()
	if inner.Height <= 0 || inner.Width <= 0 {
		return b.render(r, nil)
	}
	if len(vetoes) > inner.Height {
		vetoes = vetoes[len(vetoes)-inner.Height:]
	}

	var rows []string
	for _, v := range vetoes {
		rows = append(rows, wrapLine(vetoLine(t, v, f.Now), inner.Width)...)
	}
	// Wrapped entries can overflow; keep the newest rows in view.
	if len(rows) > inner.Height {
		rows = rows[len(rows)-inner.Height:]
	}
	return b.render(r, rows)
}

func vetoLine(t *Theme, v models.VetoRecord, now time.Time) string {
	return t.Muted.Render(FormatAge(now.Sub(v.Timestamp))) +
		t.Muted.Render(" │ ") +
		t.VetoTag.Render("VETO") + " " +
		t.Warning.Render("["+singleLine(v.Value())+"]") + " " +
		t.Text.Render(singleLine(v.Reason))
}
