package driven

import (
	"context"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// SearchProvider issues a single query against the external search API.
//
// Implementations must honour context cancellation and apply their own
// proactive rate limiting. The engine treats the provider as unreliable:
// transient failures are retried with backoff by the crawl scheduler,
// and results are normalised and deduplicated before use.
type SearchProvider interface {
	// Search returns up to resultCount raw results for the query.
	// Rate-limit responses are reported as errors matching
	// domain.ErrRateLimited.
	Search(ctx context.Context, query string, resultCount int) ([]domain.RawResult, error)

	// Name identifies the provider for logging and fingerprint scoping.
	Name() string
}
