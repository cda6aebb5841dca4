package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/daneel/internal/config"
	"github.com/ShayCichocki/daneel/internal/logging"
)

// rootOptions holds the dashboard flags.
type rootOptions struct {
	tickMS       int
	noAltScreen  bool
	source       string
	snapshotFile string
	configFile   string
	debug        bool
	logFile      string
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daneel",
		Short: "Observable mind dashboard",
		Long: `Daneel renders a live view of a running agent: identity and counters,
the nine memory windows, the volition veto log and the thought stream.

With no arguments it runs the dashboard against the built-in simulated
pipeline. Use --snapshot-file to watch a snapshot written by another process.

Keys: q quit, p pause, ? help, Esc close help or resume, up/down scroll while paused.

Exit codes:
  0  clean quit
  1  terminal could not be initialised
  2  snapshot source unavailable`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.tickMS, "tick-ms", config.DefaultTickMS, "Frame cadence in milliseconds (5-1000)")
	flags.BoolVar(&opts.noAltScreen, "no-alt-screen", false, "Render in the main screen buffer")
	flags.StringVar(&opts.source, "source", config.SourceDemo, "Snapshot source: demo or file")
	flags.StringVar(&opts.snapshotFile, "snapshot-file", "", "JSON or YAML snapshot file to watch (implies --source file)")
	flags.BoolVar(&opts.debug, "debug", false, "Show frame and input error counters, and write a debug log")
	flags.StringVar(&opts.logFile, "log-file", "", "Debug log path")

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default ~/.config/daneel/config.yaml)")

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// resolveConfig loads the layered configuration and applies the flags the
// user actually set on top.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("tick-ms") {
		cfg.TUI.TickMS = opts.tickMS
	}
	if opts.noAltScreen {
		cfg.TUI.AltScreen = false
	}
	if flags.Changed("snapshot-file") {
		cfg.Source.Path = opts.snapshotFile
		cfg.Source.Kind = config.SourceFile
	}
	if flags.Changed("source") {
		cfg.Source.Kind = opts.source
	}
	if opts.debug {
		cfg.TUI.Debug = true
	}
	if flags.Changed("log-file") {
		cfg.Log.Path = opts.logFile
	}
	if cfg.TUI.Debug && cfg.Log.Path == "" {
		cfg.Log.Path = logging.DefaultLogPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := newRootCmd(&rootOptions{}).Execute()
	if err != nil {
		reportError(os.Stderr, err)
	}
	return exitCode(err)
}
