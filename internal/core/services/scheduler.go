package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
	"github.com/custodia-labs/harvester/internal/logger"
)

// Scheduler defaults.
const (
	// DefaultWorkers is the fetch worker pool size.
	DefaultWorkers = 4

	// DefaultPerQueryTimeout bounds each provider call.
	DefaultPerQueryTimeout = 10 * time.Second

	// DefaultMaxRetries is the retry ceiling per query after the
	// initial attempt.
	DefaultMaxRetries = 2

	// DefaultInitialBackoff is the first retry delay; it doubles per
	// attempt, and quadruples when the provider reported rate limiting.
	DefaultInitialBackoff = 500 * time.Millisecond
)

// SchedulerConfig tunes the crawl scheduler. Zero values select defaults.
type SchedulerConfig struct {
	// Workers is the fetch worker pool size.
	Workers int

	// PerQueryTimeout bounds each individual provider call.
	PerQueryTimeout time.Duration

	// MaxRetries is the per-query retry ceiling.
	MaxRetries int

	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.PerQueryTimeout <= 0 {
		c.PerQueryTimeout = DefaultPerQueryTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = DefaultInitialBackoff
	}
	return c
}

// FetchOutcome is what one plan-and-fetch pass produces.
type FetchOutcome struct {
	// Entry is the cache entry served or built. Nil only when the
	// harvest failed outright with no usable cache.
	Entry *domain.CacheEntry

	// Refreshed reports whether the entry was rebuilt from a fetch
	// this pass (as opposed to served from cache or degraded).
	Refreshed bool

	// Degraded reports that a previous cached entry was served because
	// fresh data could not be obtained.
	Degraded bool

	// QueriesPlanned, QueriesFetched and QueriesFailed count the planned
	// queries, the queries actually issued, and those that failed after
	// retries.
	QueriesPlanned int
	QueriesFetched int
	QueriesFailed  int
}

// CrawlScheduler decides which planned queries actually need to be
// re-issued and runs the bounded fetch cycle. It consults the cache
// store and freshness policy first; within the freshness window it
// serves from cache with zero external calls.
//
// Callers must serialise refreshes per fingerprint themselves (the
// engine does this with a single-flight group); the scheduler assumes
// at most one PlanAndFetch per fingerprint is in flight.
type CrawlScheduler struct {
	cache      driven.CacheStore
	provider   driven.SearchProvider
	planner    *QueryPlanner
	normaliser *Normaliser
	policy     *domain.FreshnessPolicy
	cfg        SchedulerConfig

	// now is swappable for tests.
	now func() time.Time

	// sleep is swappable for tests; it must honour ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCrawlScheduler creates a crawl scheduler.
func NewCrawlScheduler(
	cache driven.CacheStore,
	provider driven.SearchProvider,
	planner *QueryPlanner,
	normaliser *Normaliser,
	policy *domain.FreshnessPolicy,
	cfg SchedulerConfig,
) *CrawlScheduler {
	return &CrawlScheduler{
		cache:      cache,
		provider:   provider,
		planner:    planner,
		normaliser: normaliser,
		policy:     policy,
		cfg:        cfg.withDefaults(),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// Fingerprint computes the cache key for criteria against this
// scheduler's provider.
func (s *CrawlScheduler) Fingerprint(criteria domain.RequestCriteria) (domain.Fingerprint, error) {
	return domain.NewFingerprint(criteria, s.provider.Name())
}

// CachedEntry returns the current cache entry for a fingerprint without
// any freshness check or fetch. Used to serve last-good data when a
// concurrent refresh holds the flight past the lock wait bound.
func (s *CrawlScheduler) CachedEntry(ctx context.Context, fp domain.Fingerprint) (*domain.CacheEntry, error) {
	return s.cache.Get(ctx, fp)
}

// PlanAndFetch serves the entry for the criteria, fetching only when the
// cached entry is stale (or force is set). The refresh is all-or-nothing:
// the cache entry is replaced wholesale after a successful cycle, never
// partially updated.
func (s *CrawlScheduler) PlanAndFetch(ctx context.Context, criteria domain.RequestCriteria, force bool) (*FetchOutcome, error) {
	fp, err := s.Fingerprint(criteria)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.Get(ctx, fp)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}

	if !force && !s.policy.IsStale(cached, criteria.Categories, s.now()) {
		logger.Debug("cache hit for %s, age %s", fp.Short(), cached.Age(s.now()))
		return &FetchOutcome{Entry: cached}, nil
	}

	queries := s.planner.Plan(criteria)
	logger.Info("Refreshing %s: %d queries planned", fp.Short(), len(queries))

	batches, failed := s.fetchAll(ctx, queries, criteria.TopN)
	if err := ctx.Err(); err != nil {
		// Cancelled mid-cycle: discard partial results for this cycle.
		return nil, err
	}

	outcome := &FetchOutcome{
		QueriesPlanned: len(queries),
		QueriesFetched: len(queries),
		QueriesFailed:  failed,
	}

	if failed == len(queries) {
		// Total fetch failure. Serve the previous entry, even stale,
		// rather than blocking the pipeline.
		if cached != nil {
			logger.Warn("all %d queries failed for %s, serving stale cache", failed, fp.Short())
			outcome.Entry = cached
			outcome.Degraded = true
			return outcome, nil
		}
		return outcome, domain.ErrHarvestFailed
	}

	entry := domain.CacheEntry{
		Fingerprint:     fp,
		Records:         s.normaliser.Normalise(fp, batches, s.now()),
		LastRefreshedAt: s.now(),
		TTLSeconds:      int64(s.policy.TTLFor(criteria.Categories) / time.Second),
	}
	if err := s.cache.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("store cache entry: %w", err)
	}

	outcome.Entry = &entry
	outcome.Refreshed = true
	logger.Info("Refreshed %s: %d records from %d/%d queries",
		fp.Short(), len(entry.Records), len(queries)-failed, len(queries))
	return outcome, nil
}

// fetchAll dispatches the queries across the worker pool and collects
// results in planned order. Returns the per-query batches (failed
// queries yield empty batches) and the failure count.
func (s *CrawlScheduler) fetchAll(ctx context.Context, queries []string, topN int) ([]QueryResults, int) {
	type job struct {
		index int
		query string
	}

	jobs := make(chan job)
	batches := make([]QueryResults, len(queries))

	var mu sync.Mutex
	failed := 0

	var wg sync.WaitGroup
	workers := s.cfg.Workers
	if workers > len(queries) {
		workers = len(queries)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results, err := s.fetchWithRetry(ctx, j.query, topN)
				mu.Lock()
				if err != nil {
					failed++
					logger.Warn("query failed: %v", err)
				}
				batches[j.index] = QueryResults{Query: j.query, Results: results}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for i, query := range queries {
		select {
		case jobs <- job{index: i, query: query}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	return batches, failed
}

// fetchWithRetry issues one query with a per-call timeout and
// exponential backoff. Rate-limit failures wait four times longer
// than other transient failures. Exhausting the ceiling skips the
// query; it never aborts the batch.
func (s *CrawlScheduler) fetchWithRetry(ctx context.Context, query string, topN int) ([]domain.RawResult, error) {
	backoff := s.cfg.InitialBackoff
	attempts := 0

	for {
		attempts++
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.PerQueryTimeout)
		results, err := s.provider.Search(callCtx, query, topN)
		cancel()

		if err == nil {
			return results, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempts > s.cfg.MaxRetries {
			return nil, &domain.ProviderError{Query: query, Attempts: attempts, Err: err}
		}

		wait := backoff
		if domain.IsRateLimited(err) {
			wait *= 4
		}
		logger.Debug("query %q attempt %d failed (%v), retrying in %s", query, attempts, err, wait)
		if err := s.sleep(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
