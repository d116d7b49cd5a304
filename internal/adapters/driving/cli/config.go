package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage harvester configuration",
}

var (
	searchAPIKey   string
	searchEngineID string
)

var configSearchCmd = &cobra.Command{
	Use:   "set-search",
	Short: "Configure the Google Custom Search credentials",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := initSettings(); err != nil {
			return err
		}
		if err := settingsService.SetSearchCredentials(searchAPIKey, searchEngineID); err != nil {
			return err
		}
		cmd.Println("Search credentials saved.")
		return nil
	},
}

var (
	classifierProvider string
	classifierModel    string
	classifierAPIKey   string
)

var configClassifierCmd = &cobra.Command{
	Use:   "set-classifier",
	Short: "Configure the classification provider",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := initSettings(); err != nil {
			return err
		}
		provider := domain.AIProvider(classifierProvider)
		if err := settingsService.SetClassifierProvider(provider, classifierModel, classifierAPIKey); err != nil {
			return err
		}
		cmd.Printf("Classifier configured: %s\n", provider)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration can drive a harvest cycle",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := initSettings(); err != nil {
			return err
		}
		if err := settingsService.Validate(); err != nil {
			return err
		}
		cmd.Println("Configuration OK.")
		return nil
	},
}

func init() {
	configSearchCmd.Flags().StringVar(&searchAPIKey, "api-key", "", "Google API key")
	configSearchCmd.Flags().StringVar(&searchEngineID, "engine-id", "", "Programmable Search Engine ID")
	configSearchCmd.MarkFlagRequired("api-key")   //nolint:errcheck
	configSearchCmd.MarkFlagRequired("engine-id") //nolint:errcheck

	configClassifierCmd.Flags().StringVar(&classifierProvider, "provider", "openai", "classification provider (openai, anthropic)")
	configClassifierCmd.Flags().StringVar(&classifierModel, "model", "", "model override (default: provider default)")
	configClassifierCmd.Flags().StringVar(&classifierAPIKey, "api-key", "", "provider API key")
	configClassifierCmd.MarkFlagRequired("api-key") //nolint:errcheck

	configCmd.AddCommand(configSearchCmd)
	configCmd.AddCommand(configClassifierCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
