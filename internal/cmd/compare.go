package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planora/planora/internal/config"
	"github.com/planora/planora/internal/planner"
	"github.com/planora/planora/internal/render"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Plan under every strategy and compare the results",
	Long: `Compare runs the planner once per ordering strategy over the same
task snapshot and prints a summary table: group counts, parallelizable
groups, and critical path length per strategy.

Examples:
  # Compare strategies over the default task file
  planora compare

  # Compare without conflict detection
  planora compare --no-conflicts`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().Bool("no-conflicts", false, "skip conflict detection")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	detectConflicts := cfg.Planner.DetectConflicts
	if noConflicts, _ := cmd.Flags().GetBool("no-conflicts"); noConflicts {
		detectConflicts = false
	}

	logger := newLogger(cfg)
	defer logger.Close()

	records, err := fetchRecords(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	results, warnings, err := planner.New(logger).Compare(records, detectConflicts)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	renderer := render.NewRenderer(cfg.Output.Color && !noColor)

	if out := renderer.Warnings(warnings); out != "" {
		fmt.Fprint(cmd.ErrOrStderr(), out)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderer.Comparison(results))
	return nil
}
