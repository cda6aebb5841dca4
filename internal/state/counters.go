package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Counters are totals carried across every session the agent has run.
type Counters struct {
	Thoughts uint64
	Vetoes   uint64
}

// Add returns c plus o.
func (c Counters) Add(o Counters) Counters {
	return Counters{Thoughts: c.Thoughts + o.Thoughts, Vetoes: c.Vetoes + o.Vetoes}
}

// LoadCounters returns the stored lifetime counters, or zero counters when
// none have been saved yet.
func (db *DB) LoadCounters(ctx context.Context) (Counters, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var c Counters
	var thoughts, vetoes int64
	err := db.conn.QueryRowContext(ctx,
		"SELECT thoughts, vetoes FROM lifetime_counters WHERE id = 1",
	).Scan(&thoughts, &vetoes)
	if errors.Is(err, sql.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("load counters: %w", err)
	}
	c.Thoughts = uint64(thoughts)
	c.Vetoes = uint64(vetoes)
	return c, nil
}

// SaveCounters replaces the stored lifetime counters.
func (db *DB) SaveCounters(ctx context.Context, c Counters) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO lifetime_counters (id, thoughts, vetoes, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			thoughts = excluded.thoughts,
			vetoes = excluded.vetoes,
			updated_at = excluded.updated_at
	`, int64(c.Thoughts), int64(c.Vetoes), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save counters: %w", err)
	}
	return nil
}
