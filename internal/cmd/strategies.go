package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planora/planora/internal/strategy"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the available ordering strategies",
	RunE:  runStrategies,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, _ []string) error {
	for _, name := range strategy.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", name, strategy.Describe(name))
	}
	return nil
}
