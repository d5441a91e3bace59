// Package cmd implements the planora command-line interface.
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planora/planora/internal/config"
	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/task"
	"github.com/planora/planora/internal/tracker"
)

var rootCmd = &cobra.Command{
	Use:   "planora",
	Short: "Conflict-aware execution planner for interdependent tasks",
	Long: `Planora pulls tasks from an issue tracker, builds their dependency
graph, and computes an execution plan: which tasks to run in what order,
and which can safely run in parallel.

Task sources:
  file    a local JSON or YAML task file (default)
  github  open issues fetched via the gh CLI`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/planora/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().String("source", "", "task source (file or github)")
	_ = viper.BindPFlag("tracker.source", rootCmd.PersistentFlags().Lookup("source"))

	rootCmd.PersistentFlags().StringP("file", "f", "", "task file path for the file source")
	_ = viper.BindPFlag("tracker.file", rootCmd.PersistentFlags().Lookup("file"))

	rootCmd.PersistentFlags().String("owner", "", "GitHub repository owner for the github source")
	_ = viper.BindPFlag("tracker.github.owner", rootCmd.PersistentFlags().Lookup("owner"))

	rootCmd.PersistentFlags().String("repo", "", "GitHub repository name for the github source")
	_ = viper.BindPFlag("tracker.github.repo", rootCmd.PersistentFlags().Lookup("repo"))

	rootCmd.PersistentFlags().String("label", "", "only fetch GitHub issues carrying this label")
	_ = viper.BindPFlag("tracker.github.label", rootCmd.PersistentFlags().Lookup("label"))

	rootCmd.PersistentFlags().Bool("no-color", false, "disable styled output")
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PLANORA")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PLANORA_PLANNER_STRATEGY for planner.strategy
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newLogger builds the logger described by the config.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NewDiscardLogger()
	}
	logger, err := logging.NewLogger(cfg.LogDir(), cfg.Logging.Level)
	if err != nil {
		return logging.NewDiscardLogger()
	}
	return logger
}

// buildSource constructs the configured task source.
func buildSource(cfg *config.Config, logger *logging.Logger) (tracker.Source, error) {
	switch cfg.Tracker.Source {
	case "file":
		return tracker.NewFileSource(cfg.Tracker.File, logger), nil
	case "github":
		return tracker.NewGitHubSource(
			cfg.Tracker.GitHub.Owner,
			cfg.Tracker.GitHub.Repo,
			logger,
			tracker.WithLabel(cfg.Tracker.GitHub.Label),
			tracker.WithLimit(cfg.Tracker.GitHub.Limit),
		), nil
	default:
		return nil, errors.NewConfigurationError(
			"tracker.source", cfg.Tracker.Source, errors.ErrNoTaskSource)
	}
}

// fetchRecords loads the task snapshot from the configured source.
func fetchRecords(ctx context.Context, cfg *config.Config, logger *logging.Logger) ([]task.RawRecord, error) {
	source, err := buildSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	return source.Fetch(ctx)
}
