// Package config holds the planora configuration, loaded through viper from
// a config file, environment variables, and command-line flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete planora configuration
type Config struct {
	Planner PlannerConfig `mapstructure:"planner"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Output  OutputConfig  `mapstructure:"output"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlannerConfig controls how execution plans are computed
type PlannerConfig struct {
	// Strategy is the ordering strategy to apply
	// Options: "topological", "risk_first", "foundational_first", "parallel_maximizing"
	Strategy string `mapstructure:"strategy"`
	// DetectConflicts enables splitting parallel groups whose members touch
	// the same resources
	DetectConflicts bool `mapstructure:"detect_conflicts"`
}

// TrackerConfig controls where task snapshots are pulled from
type TrackerConfig struct {
	// Source selects the task source
	// Options: "file", "github"
	Source string `mapstructure:"source"`
	// File is the task file path used by the file source
	File string `mapstructure:"file"`
	// GitHub configures the github source
	GitHub GitHubConfig `mapstructure:"github"`
}

// GitHubConfig identifies the repository queried through the gh CLI
type GitHubConfig struct {
	// Owner is the repository owner (user or organization)
	Owner string `mapstructure:"owner"`
	// Repo is the repository name
	Repo string `mapstructure:"repo"`
	// Label restricts the fetch to issues carrying this label (empty = all)
	Label string `mapstructure:"label"`
	// Limit caps the number of issues fetched
	Limit int `mapstructure:"limit"`
}

// OutputConfig controls how plans are rendered
type OutputConfig struct {
	// Format is the plan output format
	// Options: "text", "json"
	Format string `mapstructure:"format"`
	// Color enables styled terminal output
	Color bool `mapstructure:"color"`
}

// WatchConfig controls the watch command
type WatchConfig struct {
	// DebounceMs is how long to wait after the last file change before
	// replanning (in milliseconds)
	DebounceMs int `mapstructure:"debounce_ms"`
}

// LoggingConfig controls structured log output
type LoggingConfig struct {
	// Enabled turns file logging on or off
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level
	// Options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the log directory (empty means ConfigDir()/logs)
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			Strategy:        "topological",
			DetectConflicts: true,
		},
		Tracker: TrackerConfig{
			Source: "file",
			File:   "tasks.json",
			GitHub: GitHubConfig{
				Limit: 500,
			},
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("planner.strategy", defaults.Planner.Strategy)
	viper.SetDefault("planner.detect_conflicts", defaults.Planner.DetectConflicts)

	viper.SetDefault("tracker.source", defaults.Tracker.Source)
	viper.SetDefault("tracker.file", defaults.Tracker.File)
	viper.SetDefault("tracker.github.owner", defaults.Tracker.GitHub.Owner)
	viper.SetDefault("tracker.github.repo", defaults.Tracker.GitHub.Repo)
	viper.SetDefault("tracker.github.label", defaults.Tracker.GitHub.Label)
	viper.SetDefault("tracker.github.limit", defaults.Tracker.GitHub.Limit)

	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)

	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// LogDir returns the effective log directory.
func (c *Config) LogDir() string {
	if c.Logging.Dir != "" {
		return c.Logging.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planora")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planora"
	}
	return filepath.Join(home, ".config", "planora")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
