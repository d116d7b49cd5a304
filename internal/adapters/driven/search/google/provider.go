// Package google provides a SearchProvider adapter backed by the
// Google Custom Search JSON API.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.SearchProvider = (*Provider)(nil)

// Default configuration values.
const (
	// ProviderName identifies this provider in fingerprints and logs.
	ProviderName = "google-cse"

	// DefaultQueriesPerSecond is the proactive throttle rate. The free
	// Custom Search tier allows 100 queries/day, so there is no point
	// bursting.
	DefaultQueriesPerSecond = 1.0

	// MaxResultsPerQuery is the API's hard ceiling per call.
	MaxResultsPerQuery = 10
)

// Config holds configuration for the Custom Search provider.
type Config struct {
	// APIKey is the Google API key (required).
	APIKey string

	// SearchEngineID is the Programmable Search Engine ID (required).
	SearchEngineID string

	// QueriesPerSecond overrides the proactive throttle rate.
	QueriesPerSecond float64
}

// Provider issues bounded queries against Google Custom Search.
// It applies proactive token-bucket throttling on top of reactive
// rate-limit error mapping; the crawl scheduler handles retries.
type Provider struct {
	service        *customsearch.Service
	searchEngineID string
	limiter        *rate.Limiter
}

// NewProvider creates a Custom Search provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google: API key is required")
	}
	if cfg.SearchEngineID == "" {
		return nil, fmt.Errorf("google: search engine ID is required")
	}
	qps := cfg.QueriesPerSecond
	if qps <= 0 {
		qps = DefaultQueriesPerSecond
	}

	service, err := customsearch.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("google: creating customsearch service: %w", err)
	}

	return &Provider{
		service:        service,
		searchEngineID: cfg.SearchEngineID,
		limiter:        rate.NewLimiter(rate.Limit(qps), 1),
	}, nil
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Search returns up to resultCount raw results for the query.
func (p *Provider) Search(ctx context.Context, query string, resultCount int) ([]domain.RawResult, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if resultCount < 1 {
		resultCount = 1
	}
	if resultCount > MaxResultsPerQuery {
		resultCount = MaxResultsPerQuery
	}

	resp, err := p.service.Cse.List().
		Context(ctx).
		Cx(p.searchEngineID).
		Q(query).
		Num(int64(resultCount)).
		Do()
	if err != nil {
		return nil, mapAPIError(err)
	}

	results := make([]domain.RawResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, domain.RawResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	return results, nil
}

// mapAPIError converts googleapi errors into the engine's taxonomy so
// the scheduler can pick the right backoff.
func mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &domain.RateLimitError{RetryAfter: retryAfter(apiErr)}
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: status %d: %s", domain.ErrProviderUnavailable, apiErr.Code, apiErr.Message)
		}
	}
	return err
}

// retryAfter extracts a Retry-After hint when the response carried one.
func retryAfter(apiErr *googleapi.Error) time.Duration {
	if apiErr.Header == nil {
		return 0
	}
	if v := apiErr.Header.Get("Retry-After"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			return d
		}
	}
	return 0
}
