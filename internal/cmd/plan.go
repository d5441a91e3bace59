package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planora/planora/internal/config"
	"github.com/planora/planora/internal/planner"
	"github.com/planora/planora/internal/render"
	"github.com/planora/planora/internal/tui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute an execution plan for the tracked tasks",
	Long: `Plan pulls the current task snapshot from the configured source,
builds the dependency graph, and computes an execution plan under the
selected ordering strategy.

Examples:
  # Plan tasks from the default task file
  planora plan

  # Plan from a specific file with the risk_first strategy
  planora plan -f backlog.yaml --strategy risk_first

  # Plan open GitHub issues
  planora plan --source github --owner acme --repo rocket

  # Emit the plan as JSON
  planora plan --output json

  # Browse the plan interactively
  planora plan --interactive`,
	RunE: runPlan,
}

var planInteractive bool

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringP("strategy", "s", "", "ordering strategy (topological, risk_first, foundational_first, parallel_maximizing)")
	_ = viper.BindPFlag("planner.strategy", planCmd.Flags().Lookup("strategy"))

	planCmd.Flags().Bool("no-conflicts", false, "skip conflict detection")
	planCmd.Flags().StringP("output", "o", "", "output format (text or json)")
	_ = viper.BindPFlag("output.format", planCmd.Flags().Lookup("output"))

	planCmd.Flags().BoolVarP(&planInteractive, "interactive", "i", false, "browse the plan in an interactive TUI")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if noConflicts, _ := cmd.Flags().GetBool("no-conflicts"); noConflicts {
		cfg.Planner.DetectConflicts = false
	}

	logger := newLogger(cfg)
	defer logger.Close()

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	records, err := fetchRecords(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	plan, warnings, err := planner.New(logger).Plan(records, planner.Options{
		Strategy:        cfg.Planner.Strategy,
		DetectConflicts: cfg.Planner.DetectConflicts,
	})
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	renderer := render.NewRenderer(cfg.Output.Color && !noColor)

	if out := renderer.Warnings(warnings); out != "" {
		fmt.Fprint(os.Stderr, out)
	}

	if planInteractive {
		return tui.Run(plan)
	}

	out, err := renderer.Plan(plan, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
