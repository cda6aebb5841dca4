package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/ShayCichocki/daneel/internal/state"
)

func setupStatusDB(t *testing.T) *state.DB {
	t.Helper()
	db, err := state.Open(filepath.Join(t.TempDir(), "daneel.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestDisplayStatus(t *testing.T) {
	noColor(t)
	db := setupStatusDB(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := db.SaveCounters(ctx, state.Counters{Thoughts: 1234567, Vetoes: 42}); err != nil {
		t.Fatalf("SaveCounters failed: %v", err)
	}
	ended := now.Add(-time.Hour)
	sessions := []state.Session{
		{ID: "old", AgentName: "Timmy", StartedAt: now.Add(-2 * time.Hour), EndedAt: &ended, Thoughts: 1000, Vetoes: 3},
		{ID: "new", AgentName: "Timmy", StartedAt: now.Add(-time.Minute), Thoughts: 12},
	}
	for i := range sessions {
		if err := db.CreateSession(ctx, &sessions[i]); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := displayStatus(ctx, &buf, db, 5, now); err != nil {
		t.Fatalf("displayStatus failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"1,234,567", "Recent Sessions:", "running", "ended", "1,000 thoughts"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "new") > strings.Index(out, "old") {
		t.Errorf("expected newest session first:\n%s", out)
	}
}

func TestDisplayStatus_NoSessions(t *testing.T) {
	noColor(t)
	db := setupStatusDB(t)

	var buf bytes.Buffer
	if err := displayStatus(context.Background(), &buf, db, 5, time.Now()); err != nil {
		t.Fatalf("displayStatus failed: %v", err)
	}
	if strings.Contains(buf.String(), "Recent Sessions") {
		t.Errorf("expected no session list, got:\n%s", buf.String())
	}
}

type failingStatusStore struct{}

func (failingStatusStore) LoadCounters(context.Context) (state.Counters, error) {
	return state.Counters{}, errors.New("disk on fire")
}

func (failingStatusStore) ListRecentSessions(context.Context, int) ([]state.Session, error) {
	return nil, nil
}

func TestDisplayStatus_LoadError(t *testing.T) {
	var buf bytes.Buffer
	err := displayStatus(context.Background(), &buf, failingStatusStore{}, 5, time.Now())
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected wrapped load error, got %v", err)
	}
}

func TestDisplaySession(t *testing.T) {
	noColor(t)
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2*time.Hour + 7*time.Minute + 9*time.Second)
	s := &state.Session{ID: "abc", AgentName: "Timmy", StartedAt: start, EndedAt: &end, Thoughts: 4213, Vetoes: 7}

	var buf bytes.Buffer
	displaySession(&buf, s, end.Add(time.Hour))
	out := buf.String()

	for _, want := range []string{"Session:  abc", "Duration: 2h07m09s", "Thoughts: 4,213", "State:    ended"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestStatusCommand_NoDatabase(t *testing.T) {
	path := isolatedConfig(t, "state:\n  path: "+filepath.Join(t.TempDir(), "none.db")+"\n")

	cmd := newRootCmd(&rootOptions{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", path, "status"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions recorded yet") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
