package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySearchAPIKey      = "search.api_key"
	keySearchEngineID    = "search.engine_id"
	keyClassifyProvider  = "classifier.provider"
	keyClassifyModel     = "classifier.model"
	keyClassifyBaseURL   = "classifier.base_url"
	keyClassifyAPIKey    = "classifier.api_key"
	keyEngineMaxQueries  = "engine.max_queries"
	keyEngineWorkers     = "engine.workers"
	keyEngineMaxRetries  = "engine.max_retries"
	keyEngineTimeout     = "engine.per_query_timeout"
	keyEngineLockWait    = "engine.lock_wait"
	keyEngineBatchSize   = "engine.batch_size"
	keyEngineTTLPrefix   = "engine.ttl."
)

// SettingsService reads and writes application settings through the
// config store, applying defaults for anything unset.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Classifier returns the configured classifier settings.
func (s *SettingsService) Classifier() domain.ClassifierSettings {
	return domain.ClassifierSettings{
		Provider: s.getProvider(keyClassifyProvider),
		Model:    s.configStore.GetString(keyClassifyModel),
		BaseURL:  s.configStore.GetString(keyClassifyBaseURL), // No default - empty means provider default
		APIKey:   s.configStore.GetString(keyClassifyAPIKey),
	}
}

// Search returns the configured search provider settings.
func (s *SettingsService) Search() domain.SearchSettings {
	return domain.SearchSettings{
		APIKey:         s.configStore.GetString(keySearchAPIKey),
		SearchEngineID: s.configStore.GetString(keySearchEngineID),
	}
}

// Engine returns the configured engine tuning, with zero values where
// the caller should fall back to built-in defaults.
func (s *SettingsService) Engine() domain.EngineSettings {
	settings := domain.EngineSettings{
		MaxQueries: s.configStore.GetInt(keyEngineMaxQueries),
		Workers:    s.configStore.GetInt(keyEngineWorkers),
		MaxRetries: s.configStore.GetInt(keyEngineMaxRetries),
		BatchSize:  s.configStore.GetInt(keyEngineBatchSize),
	}

	settings.PerQueryTimeout = s.getDuration(keyEngineTimeout)
	settings.LockWait = s.getDuration(keyEngineLockWait)

	// Per-category TTL overrides, e.g. "engine.ttl.regulatory" = "12h"
	for _, cat := range domain.AllCategories() {
		if ttl := s.getDuration(keyEngineTTLPrefix + string(cat)); ttl > 0 {
			if settings.TTLOverrides == nil {
				settings.TTLOverrides = make(map[domain.Category]time.Duration)
			}
			settings.TTLOverrides[cat] = ttl
		}
	}

	return settings
}

// SetClassifierProvider configures the classification provider.
func (s *SettingsService) SetClassifierProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid classifier provider: %s", provider)
	}
	if apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	if err := s.configStore.Set(keyClassifyProvider, provider.String()); err != nil {
		return fmt.Errorf("save classifier provider: %w", err)
	}
	if model != "" {
		if err := s.configStore.Set(keyClassifyModel, model); err != nil {
			return fmt.Errorf("save classifier model: %w", err)
		}
	}
	if err := s.configStore.Set(keyClassifyAPIKey, apiKey); err != nil {
		return fmt.Errorf("save classifier api_key: %w", err)
	}
	return nil
}

// SetSearchCredentials configures the search provider credentials.
func (s *SettingsService) SetSearchCredentials(apiKey, engineID string) error {
	if apiKey == "" || engineID == "" {
		return fmt.Errorf("search API key and engine ID are both required")
	}

	if err := s.configStore.Set(keySearchAPIKey, apiKey); err != nil {
		return fmt.Errorf("save search api_key: %w", err)
	}
	if err := s.configStore.Set(keySearchEngineID, engineID); err != nil {
		return fmt.Errorf("save search engine_id: %w", err)
	}
	return nil
}

// Validate checks that the settings can drive a harvest cycle.
func (s *SettingsService) Validate() error {
	search := s.Search()
	if !search.IsConfigured() {
		return fmt.Errorf("search provider not configured: set %s and %s", keySearchAPIKey, keySearchEngineID)
	}

	classifier := s.Classifier()
	if classifier.APIKey != "" && !classifier.Provider.IsValid() {
		return fmt.Errorf("invalid classifier provider: %s", classifier.Provider)
	}

	return nil
}

// getProvider reads a provider key, returning "" for unrecognised values.
func (s *SettingsService) getProvider(key string) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return ""
	}
	return provider
}

// getDuration reads a duration string key ("45m", "12h"), returning
// zero for absent or malformed values.
func (s *SettingsService) getDuration(key string) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return 0
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0
	}
	return d
}
