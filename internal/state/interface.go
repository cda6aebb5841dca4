package state

import (
	"context"
	"io"
)

// CounterStore persists the lifetime counters.
type CounterStore interface {
	LoadCounters(ctx context.Context) (Counters, error)
	SaveCounters(ctx context.Context, c Counters) error
}

// SessionStore records agent sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	UpdateSession(ctx context.Context, s *Session) error
}

// Store is everything an agent process persists.
type Store interface {
	CounterStore
	SessionStore
	io.Closer
}

var _ Store = (*DB)(nil)
