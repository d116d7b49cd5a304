package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	refreshCriteria criteriaFlags
	refreshJSON     bool
	refreshForce    bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-check freshness and refetch if stale",
	Long: `Re-runs the freshness check for the given suppliers. With --force
the freshness window is bypassed and a fetch cycle runs regardless of
cache age. Concurrent refreshes for the same criteria still share a
single fetch.`,
	RunE: runRefresh,
}

func init() {
	refreshCriteria.register(refreshCmd)
	refreshCmd.Flags().BoolVar(&refreshJSON, "json", false, "output the cycle result as JSON")
	refreshCmd.Flags().BoolVarP(&refreshForce, "force", "f", false, "bypass the freshness window")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	criteria, err := refreshCriteria.criteria()
	if err != nil {
		return err
	}

	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	result, err := engineService.Refresh(cmd.Context(), criteria, refreshForce)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if refreshJSON {
		return outputCycleJSON(cmd, result)
	}
	return outputCycle(cmd, result)
}
