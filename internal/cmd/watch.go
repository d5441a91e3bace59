package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/planora/planora/internal/config"
	"github.com/planora/planora/internal/errors"
	"github.com/planora/planora/internal/planner"
	"github.com/planora/planora/internal/render"
	"github.com/planora/planora/internal/tracker"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Replan whenever the task file changes",
	Long: `Watch observes the task file and recomputes the execution plan each
time it changes. Only the file source can be watched.

Examples:
  # Watch the default task file
  planora watch

  # Watch a specific file with a different strategy
  planora watch -f backlog.yaml --strategy parallel_maximizing`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("strategy", "s", "", "ordering strategy")
	watchCmd.Flags().Bool("no-conflicts", false, "skip conflict detection")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strategy, _ := cmd.Flags().GetString("strategy"); strategy != "" {
		cfg.Planner.Strategy = strategy
	}
	if noConflicts, _ := cmd.Flags().GetBool("no-conflicts"); noConflicts {
		cfg.Planner.DetectConflicts = false
	}
	if cfg.Tracker.Source != "file" {
		return errors.NewConfigurationError(
			"tracker.source", cfg.Tracker.Source,
			errors.New("watch requires the file source"))
	}

	logger := newLogger(cfg)
	defer logger.Close()

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	renderer := render.NewRenderer(cfg.Output.Color && !noColor)
	p := planner.New(logger)

	replan := func() {
		records, err := fetchRecords(cmd.Context(), cfg, logger)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		plan, warnings, err := p.Plan(records, planner.Options{
			Strategy:        cfg.Planner.Strategy,
			DetectConflicts: cfg.Planner.DetectConflicts,
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		if out := renderer.Warnings(warnings); out != "" {
			fmt.Fprint(cmd.ErrOrStderr(), out)
		}
		out, err := renderer.Plan(plan, format)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n%s\n",
			time.Now().Format(time.TimeOnly), cfg.Tracker.File, out)
	}

	// Initial plan before the first change.
	replan()

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	watcher, err := tracker.NewWatcher(cfg.Tracker.File, debounce, replan, logger)
	if err != nil {
		return err
	}
	watcher.Start()
	defer watcher.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl+c to stop)\n", cfg.Tracker.File)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-cmd.Context().Done():
	}
	return nil
}
