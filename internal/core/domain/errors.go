package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCriteria indicates structurally invalid request criteria.
	// Rejected before any external call is made.
	ErrInvalidCriteria = errors.New("invalid criteria")

	// ErrProviderUnavailable indicates the search provider failed after
	// exhausting retries for a query. Local to one query: the cycle
	// degrades rather than aborts.
	ErrProviderUnavailable = errors.New("search provider unavailable")

	// ErrRateLimited indicates the search provider rate limit was exceeded.
	// Treated as a provider failure with a longer backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrClassificationSchema indicates the classification service returned
	// a structurally invalid response after the repair retry. The batch is
	// dropped; classification is best-effort over the available evidence.
	ErrClassificationSchema = errors.New("classification response violates schema")

	// ErrClassifierUnavailable indicates the classification service is not
	// configured. Generate cycles cannot run without it.
	ErrClassifierUnavailable = errors.New("classification service unavailable")

	// ErrHarvestFailed indicates every planned query failed and no usable
	// cache exists. The only hard failure surfaced to the caller.
	ErrHarvestFailed = errors.New("harvest failed: no fetched data and no usable cache")

	// ErrCacheLockTimeout indicates a concurrent refresh for the same
	// fingerprint did not complete within the configured bound.
	ErrCacheLockTimeout = errors.New("cache lock wait timed out")
)

// ProviderError wraps a search provider failure for a single query.
type ProviderError struct {
	// Query is the query string that failed.
	Query string

	// Attempts is how many times the query was tried.
	Attempts int

	// Err is the underlying cause.
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider: query %q failed after %d attempts: %v", e.Query, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the provider asked us to back off.
type RateLimitError struct {
	// RetryAfter is how long the provider asked us to wait, if known.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider: rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "provider: rate limit exceeded"
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// ClassificationError wraps a classification failure for a single batch.
type ClassificationError struct {
	// Batch is the zero-based index of the failed batch within the cycle.
	Batch int

	// Err is the underlying cause.
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification: batch %d: %v", e.Batch, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether the error indicates provider rate limiting.
// Rate-limited queries are retried with a longer backoff than other
// transient failures.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
