package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/daneel/internal/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config [key]",
		Short: "Show the effective configuration",
		Long: `Display the configuration the dashboard would run with.

Without arguments, displays every key. With one argument, displays that key.

Configuration is read from ~/.config/daneel/config.yaml, then .daneel.yaml in
the current directory or a parent, then DANEEL_* environment variables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				value, ok := configValue(cfg, args[0])
				if !ok {
					return fmt.Errorf("unknown config key: %s", args[0])
				}
				fmt.Fprintln(out, value)
				return nil
			}
			displayAllConfig(out, cfg)
			return nil
		},
	}
}

type configEntry struct {
	key   string
	value string
}

func configEntries(cfg *config.Config) []configEntry {
	return []configEntry{
		{"tui.tick_ms", strconv.Itoa(cfg.TUI.TickMS)},
		{"tui.alt_screen", strconv.FormatBool(cfg.TUI.AltScreen)},
		{"tui.scrollback_min", strconv.Itoa(cfg.TUI.ScrollbackMin)},
		{"tui.debug", strconv.FormatBool(cfg.TUI.Debug)},
		{"source.kind", cfg.Source.Kind},
		{"source.path", cfg.Source.Path},
		{"source.thought_interval", cfg.Source.ThoughtInterval.String()},
		{"source.agent_name", cfg.Source.AgentName},
		{"state.path", cfg.State.Path},
		{"log.path", cfg.Log.Path},
	}
}

func configValue(cfg *config.Config, key string) (string, bool) {
	for _, e := range configEntries(cfg) {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

// displayAllConfig prints all configuration values and the files they came from.
func displayAllConfig(w io.Writer, cfg *config.Config) {
	keyColor := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	for _, e := range configEntries(cfg) {
		value := e.value
		if value == "" {
			value = dim.Sprint("(not set)")
		}
		fmt.Fprintf(w, "%s: %s\n", keyColor.Sprint(e.key), value)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", dim.Sprint("user config:   "), config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Fprintf(w, "%s %s\n", dim.Sprint("project config:"), project)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "%s %v\n", color.YellowString("warning:"), err)
	}
}
