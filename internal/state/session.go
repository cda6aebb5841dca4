package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// Session is one run of the agent.
type Session struct {
	ID        string     `json:"id"`
	AgentName string     `json:"agent_name"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Thoughts  uint64     `json:"thoughts"`
	Vetoes    uint64     `json:"vetoes"`
}

// CreateSession inserts a new session.
func (db *DB) CreateSession(ctx context.Context, s *Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sessions (id, agent_name, started_at, ended_at, thoughts, vetoes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.AgentName, formatTime(s.StartedAt), nullableTime(s.EndedAt), int64(s.Thoughts), int64(s.Vetoes))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdateSession stores the counts and end time of an existing session.
func (db *DB) UpdateSession(ctx context.Context, s *Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.conn.ExecContext(ctx, `
		UPDATE sessions SET ended_at = ?, thoughts = ?, vetoes = ?
		WHERE id = ?
	`, nullableTime(s.EndedAt), int64(s.Thoughts), int64(s.Vetoes), s.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update session %s: %w", s.ID, ErrSessionNotFound)
	}
	return nil
}

// GetSession retrieves a session by id.
func (db *DB) GetSession(ctx context.Context, id string) (*Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRowContext(ctx, `
		SELECT id, agent_name, started_at, ended_at, thoughts, vetoes
		FROM sessions WHERE id = ?
	`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ListRecentSessions returns up to limit sessions, newest first.
func (db *DB) ListRecentSessions(ctx context.Context, limit int) ([]Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, agent_name, started_at, ended_at, thoughts, vetoes
		FROM sessions ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// PurgeOldSessions deletes sessions older than the specified duration.
// Returns the number of sessions deleted.
func (db *DB) PurgeOldSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cutoff := formatTime(time.Now().Add(-olderThan))
	result, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*Session, error) {
	var s Session
	var startedAt string
	var endedAt sql.NullString
	var thoughts, vetoes int64
	if err := sc.Scan(&s.ID, &s.AgentName, &startedAt, &endedAt, &thoughts, &vetoes); err != nil {
		return nil, err
	}
	t, err := parseTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	s.StartedAt = t
	s.EndedAt = parseNullableTime(endedAt)
	s.Thoughts = uint64(thoughts)
	s.Vetoes = uint64(vetoes)
	return &s, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
