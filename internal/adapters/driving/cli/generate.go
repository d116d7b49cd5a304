package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

var (
	generateCriteria criteriaFlags
	generateJSON     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run an intelligence cycle and print the alerts",
	Long: `Runs one intelligence cycle for the given suppliers. Within the
freshness window the cycle is served entirely from cache; otherwise
fresh evidence is fetched, classified and merged into the alert set.`,
	RunE: runGenerate,
}

func init() {
	generateCriteria.register(generateCmd)
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the cycle result as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	criteria, err := generateCriteria.criteria()
	if err != nil {
		return err
	}

	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	result, err := engineService.Generate(cmd.Context(), criteria)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	if generateJSON {
		return outputCycleJSON(cmd, result)
	}
	return outputCycle(cmd, result)
}

// outputCycleJSON prints a cycle result as indented JSON.
func outputCycleJSON(cmd *cobra.Command, result *domain.CycleResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// outputCycle prints a cycle result as grouped alert cards.
func outputCycle(cmd *cobra.Command, result *domain.CycleResult) error {
	cmd.Printf("Status: %s", result.Status)
	if result.QueriesPlanned > 0 {
		cmd.Printf(" (%d/%d queries fetched", result.QueriesFetched, result.QueriesPlanned)
		if result.QueriesFailed > 0 {
			cmd.Printf(", %d failed", result.QueriesFailed)
		}
		cmd.Print(")")
	}
	cmd.Println()
	cmd.Println()

	if result.AlertCount() == 0 {
		cmd.Println("No alerts.")
		return nil
	}

	outputGroups(cmd, result.Groups)
	cmd.Printf("%d alerts from %d source records.\n", result.AlertCount(), result.RecordCount)
	return nil
}

// outputGroups prints alert groups in canonical category order.
func outputGroups(cmd *cobra.Command, groups []domain.AlertGroup) {
	for _, group := range groups {
		cmd.Printf("%s %s (%d)\n", group.Category.Icon(), group.Category.DisplayName(), group.Count())
		for _, alert := range group.Alerts {
			cmd.Printf("  %s %s\n", alert.Icon, alert.Title)
			if alert.Description != "" {
				cmd.Printf("     %s\n", alert.Description)
			}
			cmd.Printf("     %s\n", alert.SourceLink)
		}
		cmd.Println()
	}
}
