// Package source supplies agent snapshots to the dashboard. Producers publish
// into a Latest cell; the dashboard reads the newest value without blocking.
package source

import (
	"errors"
	"sync/atomic"

	"github.com/ShayCichocki/daneel/pkg/models"
)

var (
	// ErrSourceUnavailable means the collaborator cannot be reached at all.
	ErrSourceUnavailable = errors.New("snapshot source unavailable")
	// ErrNoSnapshot means the input held no snapshot.
	ErrNoSnapshot = errors.New("no snapshot")
)

// Logger receives diagnostics.
type Logger interface {
	Log(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Log(string, ...interface{}) {}

// Latest holds the most recently published snapshot. Publishing never
// blocks: readers that fall behind see only the newest value.
type Latest struct {
	snap    atomic.Pointer[models.Snapshot]
	changed chan struct{}
}

// NewLatest creates an empty cell.
func NewLatest() *Latest {
	return &Latest{changed: make(chan struct{}, 1)}
}

// Publish replaces the current snapshot. s must not be modified afterwards.
func (l *Latest) Publish(s *models.Snapshot) {
	if s == nil {
		return
	}
	l.snap.Store(s)
	select {
	case l.changed <- struct{}{}:
	default:
	}
}

// Current returns the newest snapshot; ok is false until one is published.
func (l *Latest) Current() (*models.Snapshot, bool) {
	s := l.snap.Load()
	return s, s != nil
}

// Changed receives a value after each publish. Bursts coalesce into one.
func (l *Latest) Changed() <-chan struct{} {
	return l.changed
}
