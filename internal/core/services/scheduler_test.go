package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

func schedulerCriteria() domain.RequestCriteria {
	return domain.RequestCriteria{
		SupplierNames: []string{"Acme"},
		TopN:          5,
		Regions:       []domain.Region{domain.RegionUK},
		Categories:    []domain.Category{domain.CategoryFunding},
	}
}

// newTestScheduler builds a scheduler with instant retry sleeps.
func newTestScheduler(cache *mockCacheStore, provider *mockProvider) *CrawlScheduler {
	s := NewCrawlScheduler(
		cache,
		provider,
		NewQueryPlanner(0),
		NewNormaliser(),
		domain.DefaultFreshnessPolicy(),
		SchedulerConfig{},
	)
	s.sleep = func(context.Context, time.Duration) error { return nil }
	return s
}

func seedResults(provider *mockProvider, criteria domain.RequestCriteria) []string {
	queries := NewQueryPlanner(0).Plan(criteria)
	for i, q := range queries {
		provider.results[q] = []domain.RawResult{
			{Title: "Result " + q, Snippet: "snippet", Link: "https://example.com/" + string(rune('a'+i))},
		}
	}
	return queries
}

func TestCrawlScheduler_ColdFetchStoresEntry(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	criteria := schedulerCriteria()
	queries := seedResults(provider, criteria)

	outcome, err := s.PlanAndFetch(context.Background(), criteria, false)

	require.NoError(t, err)
	assert.True(t, outcome.Refreshed)
	assert.False(t, outcome.Degraded)
	assert.Equal(t, len(queries), outcome.QueriesPlanned)
	assert.Equal(t, len(queries), outcome.QueriesFetched)
	assert.Zero(t, outcome.QueriesFailed)
	assert.Len(t, outcome.Entry.Records, len(queries))
	assert.Equal(t, 1, cache.puts)

	// The stored entry carries the category set's freshness window.
	assert.Equal(t, int64(domain.DefaultFundingTTL/time.Second), outcome.Entry.TTLSeconds)
}

func TestCrawlScheduler_CacheHitMakesZeroExternalCalls(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	criteria := schedulerCriteria()
	seedResults(provider, criteria)

	_, err := s.PlanAndFetch(context.Background(), criteria, false)
	require.NoError(t, err)
	fetched := provider.callCount()

	outcome, err := s.PlanAndFetch(context.Background(), criteria, false)

	require.NoError(t, err)
	assert.False(t, outcome.Refreshed)
	assert.False(t, outcome.Degraded)
	assert.Zero(t, outcome.QueriesFetched)
	assert.Equal(t, fetched, provider.callCount()) // no further calls
}

func TestCrawlScheduler_ForceBypassesFreshCache(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	criteria := schedulerCriteria()
	seedResults(provider, criteria)

	_, err := s.PlanAndFetch(context.Background(), criteria, false)
	require.NoError(t, err)
	fetched := provider.callCount()

	outcome, err := s.PlanAndFetch(context.Background(), criteria, true)

	require.NoError(t, err)
	assert.True(t, outcome.Refreshed)
	assert.Greater(t, provider.callCount(), fetched)
	assert.Equal(t, 2, cache.puts)
}

func TestCrawlScheduler_StaleEntryTriggersRefetch(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	criteria := schedulerCriteria()
	seedResults(provider, criteria)

	_, err := s.PlanAndFetch(context.Background(), criteria, false)
	require.NoError(t, err)

	// Advance the clock past the funding freshness window.
	s.now = func() time.Time { return time.Now().Add(domain.DefaultFundingTTL + time.Minute) }

	outcome, err := s.PlanAndFetch(context.Background(), criteria, false)

	require.NoError(t, err)
	assert.True(t, outcome.Refreshed)
}

func TestCrawlScheduler_PartialFailureStillFresh(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	criteria := schedulerCriteria()
	queries := seedResults(provider, criteria)

	// One query fails after retries; the cycle still refreshes.
	provider.errs[queries[0]] = errors.New("boom")

	outcome, err := s.PlanAndFetch(context.Background(), criteria, false)

	require.NoError(t, err)
	assert.True(t, outcome.Refreshed)
	assert.Equal(t, 1, outcome.QueriesFailed)
	assert.Len(t, outcome.Entry.Records, len(queries)-1)
}

func TestCrawlScheduler_AllFailedServesStaleCache(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	criteria := schedulerCriteria()
	seedResults(provider, criteria)

	first, err := s.PlanAndFetch(context.Background(), criteria, false)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(domain.DefaultFundingTTL + time.Minute) }
	provider.err = errors.New("provider down")

	outcome, err := s.PlanAndFetch(context.Background(), criteria, false)

	require.NoError(t, err)
	assert.True(t, outcome.Degraded)
	assert.False(t, outcome.Refreshed)
	assert.Equal(t, first.Entry.Records, outcome.Entry.Records)
}

func TestCrawlScheduler_AllFailedNoCacheIsHarvestFailed(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	provider.err = errors.New("provider down")

	outcome, err := s.PlanAndFetch(context.Background(), schedulerCriteria(), false)

	assert.ErrorIs(t, err, domain.ErrHarvestFailed)
	require.NotNil(t, outcome)
	assert.Nil(t, outcome.Entry)
	assert.Equal(t, outcome.QueriesPlanned, outcome.QueriesFailed)
}

func TestCrawlScheduler_InvalidCriteriaRejectedBeforeFetch(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)

	_, err := s.PlanAndFetch(context.Background(), domain.RequestCriteria{}, false)

	assert.ErrorIs(t, err, domain.ErrInvalidCriteria)
	assert.Zero(t, provider.callCount())
}

// scriptedProvider fails a query a fixed number of times before
// succeeding, recording the waits the scheduler asked for.
type scriptedProvider struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Search(_ context.Context, _ string, _ int) ([]domain.RawResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return nil, p.err
	}
	return []domain.RawResult{{Title: "ok", Snippet: "s", Link: "https://example.com/ok"}}, nil
}

func TestCrawlScheduler_RetriesTransientFailure(t *testing.T) {
	cache := newMockCacheStore()
	provider := &scriptedProvider{failures: 1, err: errors.New("transient")}

	var waits []time.Duration
	s := NewCrawlScheduler(cache, provider, NewQueryPlanner(1), NewNormaliser(),
		domain.DefaultFreshnessPolicy(), SchedulerConfig{})
	s.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	outcome, err := s.PlanAndFetch(context.Background(), schedulerCriteria(), false)

	require.NoError(t, err)
	assert.True(t, outcome.Refreshed)
	assert.Zero(t, outcome.QueriesFailed)
	require.Len(t, waits, 1)
	assert.Equal(t, DefaultInitialBackoff, waits[0])
}

func TestCrawlScheduler_RateLimitedWaitsLonger(t *testing.T) {
	cache := newMockCacheStore()
	provider := &scriptedProvider{failures: 1, err: &domain.RateLimitError{}}

	var waits []time.Duration
	s := NewCrawlScheduler(cache, provider, NewQueryPlanner(1), NewNormaliser(),
		domain.DefaultFreshnessPolicy(), SchedulerConfig{})
	s.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	_, err := s.PlanAndFetch(context.Background(), schedulerCriteria(), false)

	require.NoError(t, err)
	require.Len(t, waits, 1)
	assert.Equal(t, 4*DefaultInitialBackoff, waits[0])
}

func TestCrawlScheduler_RetryCeilingSkipsQuery(t *testing.T) {
	cache := newMockCacheStore()
	provider := &scriptedProvider{failures: 100, err: errors.New("persistent")}

	s := NewCrawlScheduler(cache, provider, NewQueryPlanner(1), NewNormaliser(),
		domain.DefaultFreshnessPolicy(), SchedulerConfig{})
	s.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := s.PlanAndFetch(context.Background(), schedulerCriteria(), false)

	assert.ErrorIs(t, err, domain.ErrHarvestFailed)
	// Initial attempt plus the retry ceiling.
	assert.Equal(t, 1+DefaultMaxRetries, provider.calls)
}

func TestCrawlScheduler_CancelledContext(t *testing.T) {
	cache := newMockCacheStore()
	provider := newMockProvider()
	s := newTestScheduler(cache, provider)
	criteria := schedulerCriteria()
	seedResults(provider, criteria)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.PlanAndFetch(ctx, criteria, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, cache.puts)
}
