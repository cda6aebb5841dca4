// Package config handles configuration loading for daneel.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/daneel/internal/state"
)

// Tick bounds in milliseconds.
const (
	MinTickMS     = 5
	MaxTickMS     = 1000
	DefaultTickMS = 16
)

// Source kinds.
const (
	SourceDemo = "demo"
	SourceFile = "file"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for daneel.
type Config struct {
	TUI    TUIConfig    `mapstructure:"tui"`
	Source SourceConfig `mapstructure:"source"`
	State  StateConfig  `mapstructure:"state"`
	Log    LogConfig    `mapstructure:"log"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	TickMS        int  `mapstructure:"tick_ms"`
	AltScreen     bool `mapstructure:"alt_screen"`
	ScrollbackMin int  `mapstructure:"scrollback_min"`
	Debug         bool `mapstructure:"debug"`
}

// Tick returns the frame cadence.
func (c TUIConfig) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// SourceConfig selects where snapshots come from.
type SourceConfig struct {
	// Kind is "demo" for the built-in simulator or "file" for a snapshot file.
	Kind            string        `mapstructure:"kind"`
	Path            string        `mapstructure:"path"`
	ThoughtInterval time.Duration `mapstructure:"thought_interval"`
	AgentName       string        `mapstructure:"agent_name"`
}

// StateConfig locates the lifetime counter database.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds debug log settings. An empty path disables the log.
type LogConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (DANEEL_TUI_TICK_MS, DANEEL_DEBUG, ...)
// 2. Project config (.daneel.yaml in current directory or parent)
// 3. User config (~/.config/daneel/config.yaml)
// 4. Built-in defaults
//
// A non-empty configFile replaces both config file lookups.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(getUserConfigDir())

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading user config: %w", err)
			}
		}

		if projectConfig := findProjectConfig(); projectConfig != "" {
			projectViper := viper.New()
			projectViper.SetConfigFile(projectConfig)
			if err := projectViper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
			}
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	bindEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.expand()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.expand()
	return cfg, nil
}

// Validate checks the ranges the dashboard depends on.
func (c *Config) Validate() error {
	if c.TUI.TickMS < MinTickMS || c.TUI.TickMS > MaxTickMS {
		return fmt.Errorf("%w: tick_ms %d outside %d-%d", ErrInvalidConfig, c.TUI.TickMS, MinTickMS, MaxTickMS)
	}
	if c.TUI.ScrollbackMin < 1 {
		return fmt.Errorf("%w: scrollback_min must be positive", ErrInvalidConfig)
	}
	switch c.Source.Kind {
	case SourceDemo:
		if c.Source.ThoughtInterval <= 0 {
			return fmt.Errorf("%w: thought_interval must be positive", ErrInvalidConfig)
		}
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("%w: source.path is required for the file source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tui.tick_ms", DefaultTickMS)
	v.SetDefault("tui.alt_screen", true)
	v.SetDefault("tui.scrollback_min", 256)
	v.SetDefault("tui.debug", false)

	v.SetDefault("source.kind", SourceDemo)
	v.SetDefault("source.path", "")
	v.SetDefault("source.thought_interval", "250ms")
	v.SetDefault("source.agent_name", "Timmy")

	v.SetDefault("state.path", state.DefaultDBPath())
	v.SetDefault("log.path", "")
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("DANEEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("tui.debug", "DANEEL_DEBUG", "DANEEL_TUI_DEBUG")
}

// expand resolves ${VAR} and ~ in paths.
func (c *Config) expand() {
	c.Source.Path = expandPath(c.Source.Path)
	c.State.Path = expandPath(c.State.Path)
	c.Log.Path = expandPath(c.Log.Path)
}

func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// getUserConfigDir returns the XDG config directory for daneel.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "daneel")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "daneel")
	}
	return filepath.Join(home, ".config", "daneel")
}

// findProjectConfig searches for .daneel.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".daneel.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		TUI: TUIConfig{
			TickMS:        DefaultTickMS,
			AltScreen:     true,
			ScrollbackMin: 256,
		},
		Source: SourceConfig{
			Kind:            SourceDemo,
			ThoughtInterval: 250 * time.Millisecond,
			AgentName:       "Timmy",
		},
		State: StateConfig{
			Path: state.DefaultDBPath(),
		},
	}
}
