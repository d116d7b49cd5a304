package domain

import "time"

// AIProvider identifies a classification service provider.
type AIProvider string

// Available classification providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// ClassifierSettings configures the classification service.
type ClassifierSettings struct {
	// Provider selects the backing API.
	Provider AIProvider

	// APIKey authenticates against the provider.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string
}

// IsConfigured returns true when the settings can produce a classifier.
func (s *ClassifierSettings) IsConfigured() bool {
	return s != nil && s.Provider.IsValid() && s.APIKey != ""
}

// SearchSettings configures the external search provider.
type SearchSettings struct {
	// APIKey is the Google API key.
	APIKey string

	// SearchEngineID is the Programmable Search Engine ID.
	SearchEngineID string
}

// IsConfigured returns true when the settings can produce a provider.
func (s *SearchSettings) IsConfigured() bool {
	return s != nil && s.APIKey != "" && s.SearchEngineID != ""
}

// EngineSettings tunes the harvest cycle.
type EngineSettings struct {
	// MaxQueries caps the planned queries per cycle.
	MaxQueries int

	// Workers is the fetch worker pool size.
	Workers int

	// MaxRetries is the per-query retry ceiling.
	MaxRetries int

	// PerQueryTimeout bounds each provider call.
	PerQueryTimeout time.Duration

	// LockWait bounds how long a caller waits on a concurrent refresh.
	LockWait time.Duration

	// BatchSize bounds records per classification call.
	BatchSize int

	// TTLOverrides replaces the default per-category freshness windows.
	TTLOverrides map[Category]time.Duration
}
