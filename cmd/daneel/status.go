package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/daneel/internal/config"
	"github.com/ShayCichocki/daneel/internal/state"
	"github.com/ShayCichocki/daneel/internal/tui"
)

type statusOptions struct {
	limit       int
	purgeBefore time.Duration
}

func newStatusCmd(root *rootOptions) *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status [session-id]",
		Short: "Show lifetime counters and recent sessions",
		Long: `Display what the simulated pipeline has recorded.

Shows:
  - Lifetime thought and veto counts
  - The most recent sessions and their totals

With a session id, shows that session only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configFile)
			if err != nil {
				return err
			}

			if _, err := os.Stat(cfg.State.Path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet. Run 'daneel' to start.")
				return nil
			}

			db, err := state.Open(cfg.State.Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				s, err := db.GetSession(ctx, args[0])
				if err != nil {
					return err
				}
				displaySession(out, s, time.Now())
				return nil
			}

			if opts.purgeBefore > 0 {
				n, err := db.PurgeOldSessions(ctx, opts.purgeBefore)
				if err != nil {
					return fmt.Errorf("purge sessions: %w", err)
				}
				fmt.Fprintf(out, "Purged %d sessions older than %s\n\n", n, opts.purgeBefore)
			}
			return displayStatus(ctx, out, db, opts.limit, time.Now())
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 5, "Number of recent sessions to show")
	cmd.Flags().DurationVar(&opts.purgeBefore, "purge-older-than", 0, "Delete sessions that started longer ago than this")
	return cmd
}

// statusStore is the read side of the state database used by status.
type statusStore interface {
	LoadCounters(ctx context.Context) (state.Counters, error)
	ListRecentSessions(ctx context.Context, limit int) ([]state.Session, error)
}

func displayStatus(ctx context.Context, w io.Writer, db statusStore, limit int, now time.Time) error {
	c, err := db.LoadCounters(ctx)
	if err != nil {
		return fmt.Errorf("load counters: %w", err)
	}

	bold := color.New(color.Bold)
	fmt.Fprintln(w, bold.Sprint("Lifetime"))
	fmt.Fprintf(w, "  Thoughts: %s\n", color.GreenString(tui.FormatWithCommas(c.Thoughts)))
	fmt.Fprintf(w, "  Vetoes:   %s\n", color.RedString(tui.FormatWithCommas(c.Vetoes)))

	sessions, err := db.ListRecentSessions(ctx, limit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint("Recent Sessions:"))
	for _, s := range sessions {
		fmt.Fprintf(w, "  %s  %-10s %s  %s thoughts, %s vetoes (%s ago)\n",
			s.ID, s.AgentName, sessionState(&s),
			tui.FormatWithCommas(s.Thoughts), tui.FormatWithCommas(s.Vetoes),
			tui.FormatUptime(now.Sub(s.StartedAt)))
	}
	return nil
}

func displaySession(w io.Writer, s *state.Session, now time.Time) {
	fmt.Fprintf(w, "Session:  %s\n", s.ID)
	fmt.Fprintf(w, "Agent:    %s\n", s.AgentName)
	fmt.Fprintf(w, "Started:  %s\n", s.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "State:    %s\n", sessionState(s))
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	fmt.Fprintf(w, "Duration: %s\n", tui.FormatUptime(end.Sub(s.StartedAt)))
	fmt.Fprintf(w, "Thoughts: %s\n", tui.FormatWithCommas(s.Thoughts))
	fmt.Fprintf(w, "Vetoes:   %s\n", tui.FormatWithCommas(s.Vetoes))
}

func sessionState(s *state.Session) string {
	if s.EndedAt == nil {
		return color.YellowString("running")
	}
	return color.New(color.Faint).Sprint("ended")
}
