// Package ai provides factory functions for creating classification
// service adapters from settings.
package ai

import (
	"fmt"

	"github.com/custodia-labs/harvester/internal/adapters/driven/classify/anthropic"
	"github.com/custodia-labs/harvester/internal/adapters/driven/classify/openai"
	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// CreateClassifier creates a classifier for the configured provider.
// Returns (nil, nil) when no classifier is configured; the caller
// decides whether that is fatal.
func CreateClassifier(settings *domain.ClassifierSettings) (driven.Classifier, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openai.NewClassifier(openai.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})

	case domain.AIProviderAnthropic:
		return anthropic.NewClassifier(anthropic.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})

	default:
		return nil, fmt.Errorf("%w: unknown classifier provider %q",
			domain.ErrClassifierUnavailable, settings.Provider)
	}
}
