package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ShayCichocki/daneel/internal/config"
	"github.com/ShayCichocki/daneel/internal/logging"
	"github.com/ShayCichocki/daneel/internal/source"
	"github.com/ShayCichocki/daneel/internal/state"
	"github.com/ShayCichocki/daneel/internal/tui"
)

var errNotTerminal = errors.New("stdout is not a terminal")

// runDashboard owns the terminal until the user quits or ctx is cancelled.
func runDashboard(ctx context.Context, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return terminalError(errNotTerminal)
	}

	logger, err := logging.NewDebugLogger(cfg.Log.Path)
	if err != nil {
		reportError(os.Stderr, fmt.Errorf("debug log disabled: %w", err))
		logger = logging.NopLogger()
	}
	defer logger.Close()

	// Nothing may write to the terminal while the dashboard owns it.
	originalOutput := log.Writer()
	log.SetOutput(logger)
	defer log.SetOutput(originalOutput)

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		logger.Log("terminal %dx%d TERM=%q", w, h, os.Getenv("TERM"))
	}
	lipgloss.SetColorProfile(tui.DetectProfile(os.Getenv))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	latest, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		return sourceError(err)
	}
	defer closeSource()

	app := tui.NewApp(latest, tui.Options{
		Tick:          cfg.TUI.Tick(),
		AltScreen:     cfg.TUI.AltScreen,
		ScrollbackMin: cfg.TUI.ScrollbackMin,
		Debug:         cfg.TUI.Debug,
		Palette:       tui.PaletteFromEnv(os.Getenv),
		Logger:        logger,
	})

	if _, err := tui.NewProgram(ctx, app).Run(); err != nil {
		if quitCleanly(ctx, err) {
			logger.Log("dashboard stopped: %v", err)
			return nil
		}
		return terminalError(fmt.Errorf("run dashboard: %w", err))
	}
	logger.Log("dashboard quit after %d frames", app.Frames())
	return nil
}

// quitCleanly reports whether a program error is an interrupt rather than a
// terminal failure.
func quitCleanly(ctx context.Context, err error) bool {
	if errors.Is(err, tea.ErrInterrupted) {
		return true
	}
	return errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil
}

// openSource starts the configured snapshot producer. The returned func
// stops it and releases its resources.
func openSource(ctx context.Context, cfg *config.Config, logger *logging.DebugLogger) (*source.Latest, func(), error) {
	latest := source.NewLatest()

	switch cfg.Source.Kind {
	case config.SourceFile:
		fs, err := source.OpenFile(cfg.Source.Path, latest, logger)
		if err != nil {
			return nil, nil, err
		}
		return latest, func() {
			reloads, failures := fs.Stats()
			logger.Log("snapshot file: %d reloads, %d failures", reloads, failures)
			fs.Close()
		}, nil

	case config.SourceDemo:
		db := openStateDB(cfg.State.Path, logger)
		var store source.Store
		if db != nil {
			store = db
		}

		sim := source.NewSimulator(source.SimulatorConfig{
			AgentName: cfg.Source.AgentName,
			Interval:  cfg.Source.ThoughtInterval,
			Store:     store,
			Logger:    logger,
		}, latest)
		if err := sim.Start(ctx, time.Now()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%w: %v", source.ErrSourceUnavailable, err)
		}

		runCtx, cancel := context.WithCancel(ctx)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sim.Run(runCtx); err != nil {
				logger.Log("simulator stopped: %v", err)
			}
		}()
		return latest, func() {
			cancel()
			wg.Wait()
			db.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown source kind %q", source.ErrSourceUnavailable, cfg.Source.Kind)
	}
}

// openStateDB opens the lifetime counter store. The simulator runs without
// persistence when the store cannot be opened.
func openStateDB(path string, logger *logging.DebugLogger) *state.DB {
	db, err := state.Open(path)
	if err != nil {
		logger.Log("lifetime counters disabled: %v", err)
		return nil
	}
	if err := db.Migrate(); err != nil {
		logger.Log("lifetime counters disabled: migrate %s: %v", path, err)
		db.Close()
		return nil
	}
	return db
}
