// Package cli provides the command-line driving adapter.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/harvester/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/harvester/internal/adapters/driven/config/file"
	"github.com/custodia-labs/harvester/internal/adapters/driven/search/google"
	"github.com/custodia-labs/harvester/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driving"
	"github.com/custodia-labs/harvester/internal/core/services"
	"github.com/custodia-labs/harvester/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// Services wired on first use; tests inject their own.
var (
	engineService   driving.IntelligenceEngine
	settingsService *services.SettingsService
	metadataStore   *sqlite.Store
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Incremental web-intelligence harvesting engine",
	Long: `Harvester gathers supplier market intelligence from web search,
caches result sets by request fingerprint, and classifies fresh
evidence into deduplicated alert cards.

Within a category's freshness window identical requests are served
entirely from cache, with zero external calls.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.harvester)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.harvester/data)")
}

// Execute runs the root command. The version string is stamped by the
// build and surfaced through the version command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	defer closeServices()
	return rootCmd.Execute()
}

// initSettings wires the settings service if not already present.
func initSettings() error {
	if settingsService != nil {
		return nil
	}
	configStore, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)
	return nil
}

// initServices wires the full engine from configuration. Commands that
// run cycles call this lazily so config-only commands work without
// search credentials.
func initServices(ctx context.Context) error {
	if engineService != nil {
		return nil
	}
	if err := initSettings(); err != nil {
		return err
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening data store: %w", err)
	}
	metadataStore = store

	search := settingsService.Search()
	provider, err := google.NewProvider(ctx, google.Config{
		APIKey:         search.APIKey,
		SearchEngineID: search.SearchEngineID,
	})
	if err != nil {
		return fmt.Errorf("creating search provider: %w", err)
	}

	classifierSettings := settingsService.Classifier()
	classifier, err := ai.CreateClassifier(&classifierSettings)
	if err != nil {
		return fmt.Errorf("creating classifier: %w", err)
	}

	engine := settingsService.Engine()
	scheduler := services.NewCrawlScheduler(
		store.CacheStore(),
		provider,
		services.NewQueryPlanner(engine.MaxQueries),
		services.NewNormaliser(),
		domain.NewFreshnessPolicy(engine.TTLOverrides),
		services.SchedulerConfig{
			Workers:         engine.Workers,
			PerQueryTimeout: engine.PerQueryTimeout,
			MaxRetries:      engine.MaxRetries,
		},
	)
	gateway := services.NewAnalysisGateway(classifier, engine.BatchSize)
	engineService = services.NewIntelligenceService(scheduler, gateway, store.AlertStore(), engine.LockWait)

	return nil
}

// closeServices releases held resources at process exit.
func closeServices() {
	if metadataStore != nil {
		metadataStore.Close() //nolint:errcheck
		metadataStore = nil
	}
}
