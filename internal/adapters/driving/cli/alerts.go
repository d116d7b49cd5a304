package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	alertsCriteria criteriaFlags
	alertsJSON     bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List previously generated alerts",
	Long: `Lists the alerts previously generated for the given suppliers,
grouped by category, without running a cycle or making any external
calls.`,
	RunE: runAlerts,
}

func init() {
	alertsCriteria.register(alertsCmd)
	alertsCmd.Flags().BoolVar(&alertsJSON, "json", false, "output alerts as JSON")
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	criteria, err := alertsCriteria.criteria()
	if err != nil {
		return err
	}

	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	groups, err := engineService.Alerts(cmd.Context(), criteria)
	if err != nil {
		return fmt.Errorf("listing alerts failed: %w", err)
	}

	if alertsJSON {
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal alerts: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(groups) == 0 {
		cmd.Println("No alerts.")
		return nil
	}

	outputGroups(cmd, groups)
	return nil
}
